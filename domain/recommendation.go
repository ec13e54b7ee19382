package domain

// Gender codes used in brand/gender segments.
const (
	GenderWomen = int8(0)
	GenderMen   = int8(1)
	GenderOther = int8(2)
)

// Recommendation is one ranked entry of a customer's Top-N list.
// Score is log-transformed and re-normalized per gender, so it lives on a
// comparable 0..1 scale within each gender partition. Liked marks a segment
// the customer already interacted with in the train window.
type Recommendation struct {
	MemberID    uint64  `json:"memberID"`
	Brand       int     `json:"brand"`
	Gender      int8    `json:"gender"`
	Score       float64 `json:"score"`
	Liked       bool    `json:"liked"`
	BrandGender string  `json:"b_g"`
}

// ValidationRecord pairs one (customer, gender)'s held-out ground truth with
// the ranked predictions made for it. Records with an empty test set are
// never built; the scorer only sees qualifying pairs.
type ValidationRecord struct {
	MemberID uint64
	Gender   int8
	Test     []string
	Pred     []string
}
