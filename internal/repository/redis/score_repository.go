package redis

import (
	"context"
	"fmt"
	"strconv"

	"brandreco/domain"

	"github.com/redis/go-redis/v9"
)

// flushEvery bounds the number of commands buffered in one pipeline round
// trip during a bulk upsert.
const flushEvery = 1000

// ScoreRepository persists scored interactions as one hash per member:
// key "bg:hits:<memberID>", field brand_gender, value total_hits. The
// prediction service reads a member's whole segment vector in one HGETALL.
type ScoreRepository struct {
	client *redis.Client
}

func NewScoreRepository(client *redis.Client) *ScoreRepository {
	return &ScoreRepository{
		client: client,
	}
}

func memberKey(memberID uint64) string {
	return "bg:hits:" + strconv.FormatUint(memberID, 10)
}

// BulkUpsert writes the whole scored batch through a pipeline, flushing
// every flushEvery commands.
func (r *ScoreRepository) BulkUpsert(ctx context.Context, scores []domain.ScoredInteraction) error {
	pipe := r.client.Pipeline()

	buffered := 0
	for _, sc := range scores {
		pipe.HSet(ctx, memberKey(sc.MemberID), sc.BrandGender, sc.TotalHits)
		buffered++

		if buffered == flushEvery {
			if _, err := pipe.Exec(ctx); err != nil {
				return fmt.Errorf("failed to flush scored interactions to Redis: %w", err)
			}
			buffered = 0
		}
	}

	if buffered > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("failed to flush scored interactions to Redis: %w", err)
		}
	}

	return nil
}

// GetMemberScores reads one member's segment vector back.
func (r *ScoreRepository) GetMemberScores(ctx context.Context, memberID uint64) ([]domain.ScoredInteraction, error) {
	fields, err := r.client.HGetAll(ctx, memberKey(memberID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get member scores from Redis: %w", err)
	}

	scores := make([]domain.ScoredInteraction, 0, len(fields))
	for bg, raw := range fields {
		hits, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt total_hits for member %d segment %q: %w", memberID, bg, err)
		}
		scores = append(scores, domain.ScoredInteraction{
			MemberID:    memberID,
			BrandGender: bg,
			TotalHits:   hits,
		})
	}

	return scores, nil
}
