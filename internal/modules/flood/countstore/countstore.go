package countstore

import (
	"context"
	"fmt"
	"time"
)

// CountStore keeps short-lived counters.
//
// IncrementWithExpiry adds one to the counter at key and returns the new
// value. When the increment creates the counter, its lifetime is set to ttl
// as part of the same atomic step; later increments leave the expiry alone.
type CountStore interface {
	IncrementWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// FloodKey names the per-user message counter of a group
func FloodKey(groupID, userID int64) string {
	return fmt.Sprintf("flood/%d/%d", groupID, userID)
}
