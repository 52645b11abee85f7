package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const guardTTL = 12 * time.Hour

// CaptureGuard suppresses redundant ledger writes when the same student
// is re-captured on the same day. The ledger upsert is idempotent
// regardless; a missing or expired key only costs one extra write.
// Key format: mark:<course_id>:<student_id>:<date>
type CaptureGuard struct {
	client *redis.Client
}

// NewCaptureGuard creates a CaptureGuard wrapping the given Redis client.
func NewCaptureGuard(client *redis.Client) *CaptureGuard {
	return &CaptureGuard{client: client}
}

// AlreadyMarked reports whether this student was already marked in this
// course today.
func (g *CaptureGuard) AlreadyMarked(ctx context.Context, courseID, studentID, date string) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(courseID, studentID, date)).Result()
	if err != nil {
		return false, fmt.Errorf("capture guard check: %w", err)
	}
	return n > 0, nil
}

// Remember records that this mark has been written (expires after guardTTL).
func (g *CaptureGuard) Remember(ctx context.Context, courseID, studentID, date string) error {
	return g.client.Set(ctx, g.key(courseID, studentID, date), "1", guardTTL).Err()
}

func (g *CaptureGuard) key(courseID, studentID, date string) string {
	return fmt.Sprintf("mark:%s:%s:%s", courseID, studentID, date)
}
