package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateEventCache drops the event detail, its listings, and the derived
// occupancy stats. Called after any write touching the event, its roles, or
// its registrations.
func InvalidateEventCache(ctx context.Context, cm *CacheManager, eventID uint) {
	SafeDelete(ctx, cm.Event,
		fmt.Sprintf("id:%d", eventID),
		fmt.Sprintf("details:%d", eventID))

	SafeInvalidatePattern(ctx, cm.Event, "list:*")
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("event:%d:*", eventID))
}

// InvalidateDonationCache drops the donation aggregates for an event,
// including the summary embedded in the event detail view.
func InvalidateDonationCache(ctx context.Context, cm *CacheManager, eventID uint) {
	SafeInvalidatePattern(ctx, cm.Donation, fmt.Sprintf("event:%d:*", eventID))
	SafeDelete(ctx, cm.Event, fmt.Sprintf("details:%d", eventID))
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("event:%d:*", eventID))
}

// InvalidateUserCache drops cached user lookups after profile or role changes.
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userID uint, username string) {
	SafeDelete(ctx, cm.User,
		fmt.Sprintf("id:%d", userID),
		fmt.Sprintf("username:%s", username))
}
