package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// duplicateWindow is the fixed interval during which an identical batch
// submission is treated as an accidental resubmit.
const duplicateWindow = 2 * time.Minute

// SubmissionGuard rejects identical batch submissions inside the window.
type SubmissionGuard interface {
	Check(ctx context.Context, input CreateBatchInput) error
	Arm(ctx context.Context, input CreateBatchInput) error
}

// RedisGuard tracks recent submissions as redis keys with a TTL equal to the
// window, so expiry needs no sweeper.
type RedisGuard struct {
	client *redis.Client
}

func NewRedisGuard(client *redis.Client) *RedisGuard {
	return &RedisGuard{client: client}
}

func (g *RedisGuard) key(input CreateBatchInput) string {
	return fmt.Sprintf("stock:batch:%d:%d:%s:%s",
		input.ProductUnitID,
		input.Quantity,
		input.CostPrice.StringFixed(2),
		input.SellingPrice.StringFixed(2),
	)
}

// Check fails when an identical submission is still inside the window.
func (g *RedisGuard) Check(ctx context.Context, input CreateBatchInput) error {
	n, err := g.client.Exists(ctx, g.key(input)).Result()
	if err != nil {
		return fmt.Errorf("stock: duplicate guard check: %w", err)
	}
	if n > 0 {
		return ErrDuplicateWindow
	}
	return nil
}

// Arm records a successful submission. It is called only after the batch is
// persisted so a failed create never locks the tuple out.
func (g *RedisGuard) Arm(ctx context.Context, input CreateBatchInput) error {
	return g.client.Set(ctx, g.key(input), 1, duplicateWindow).Err()
}
