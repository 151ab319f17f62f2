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

// InvalidateSessionCache drops the cached session after a QR or status mutation.
func InvalidateSessionCache(ctx context.Context, cm *CacheManager, sessionID, courseID string) {
	SafeDelete(ctx, cm.Session, fmt.Sprintf("id:%s", sessionID))
	SafeInvalidatePattern(ctx, cm.Session, fmt.Sprintf("course:%s:*", courseID))
	SafeInvalidatePattern(ctx, cm.Stats, "*")
}

// InvalidateCourseCache drops course caches after enrollment or rep changes.
func InvalidateCourseCache(ctx context.Context, cm *CacheManager, courseID string) {
	SafeDelete(ctx, cm.Course, fmt.Sprintf("id:%s", courseID))
	SafeInvalidatePattern(ctx, cm.Course, "list:*")
	SafeInvalidatePattern(ctx, cm.Stats, "*")
}
