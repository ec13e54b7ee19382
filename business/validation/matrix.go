package validation

// SegmentIndex is the arena binding brand/gender segment identities to
// matrix positions: an ordered identity list plus the reverse mapping.
// It must not be mutated once a similarity artifact is bound to it.
type SegmentIndex struct {
	ids []string
	pos map[string]int
}

func NewSegmentIndex() *SegmentIndex {
	return &SegmentIndex{pos: make(map[string]int)}
}

// Add interns a segment identity and returns its position. Adding an
// already-known identity returns the existing position.
func (x *SegmentIndex) Add(id string) int {
	if p, ok := x.pos[id]; ok {
		return p
	}

	p := len(x.ids)
	x.ids = append(x.ids, id)
	x.pos[id] = p
	return p
}

func (x *SegmentIndex) ID(position int) string {
	return x.ids[position]
}

func (x *SegmentIndex) Pos(id string) (int, bool) {
	p, ok := x.pos[id]
	return p, ok
}

func (x *SegmentIndex) Len() int {
	return len(x.ids)
}

// CSRMatrix is a square sparse matrix in compressed-sparse-row form.
type CSRMatrix struct {
	n      int
	rowPtr []int
	cols   []int
	vals   []float64
}

// NewCSRFromDense builds a CSR matrix from a square dense slice, keeping
// only nonzero entries.
func NewCSRFromDense(dense [][]float64) *CSRMatrix {
	n := len(dense)
	m := &CSRMatrix{n: n, rowPtr: make([]int, n+1)}

	for i, row := range dense {
		for j, v := range row {
			if v != 0 {
				m.cols = append(m.cols, j)
				m.vals = append(m.vals, v)
			}
		}
		m.rowPtr[i+1] = len(m.cols)
	}

	return m
}

// Entry is one nonzero matrix cell, used when assembling a CSR matrix from
// a sparse triplet representation.
type Entry struct {
	Row int
	Col int
	Val float64
}

// NewCSRFromEntries builds an n-by-n CSR matrix from sparse triplets. Zero
// values are skipped; entries need not arrive in row order.
func NewCSRFromEntries(n int, entries []Entry) *CSRMatrix {
	rowCounts := make([]int, n)
	kept := 0
	for _, e := range entries {
		if e.Val != 0 {
			rowCounts[e.Row]++
			kept++
		}
	}

	m := &CSRMatrix{
		n:      n,
		rowPtr: make([]int, n+1),
		cols:   make([]int, kept),
		vals:   make([]float64, kept),
	}
	for i := 0; i < n; i++ {
		m.rowPtr[i+1] = m.rowPtr[i] + rowCounts[i]
	}

	cursor := make([]int, n)
	copy(cursor, m.rowPtr[:n])
	for _, e := range entries {
		if e.Val == 0 {
			continue
		}
		k := cursor[e.Row]
		m.cols[k] = e.Col
		m.vals[k] = e.Val
		cursor[e.Row]++
	}

	return m
}

func (m *CSRMatrix) Dim() int {
	return m.n
}

// VecMul computes the row-vector-times-matrix product v * M and returns the
// dense result. Only rows with a nonzero coefficient in v are touched.
func (m *CSRMatrix) VecMul(v []float64) []float64 {
	out := make([]float64, m.n)
	for i := 0; i < m.n && i < len(v); i++ {
		coeff := v[i]
		if coeff == 0 {
			continue
		}
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			out[m.cols[k]] += coeff * m.vals[k]
		}
	}

	return out
}

// SimilarityArtifact is the externally trained item-to-item affinity model:
// a square sparse matrix over segment positions plus the index binding
// positions to segment identities. The validation core only reads it.
type SimilarityArtifact struct {
	Matrix *CSRMatrix
	Index  *SegmentIndex
}
