package constants

import "fmt"

// Redis cache key layout. Everything lives under the stagehand: prefix so
// DeletePattern invalidation cannot touch rate limiter keys.
const (
	CacheKeyPrefix = "stagehand:cache:"

	// Public shift listing per event
	ShiftListKeyFormat = CacheKeyPrefix + "shifts:event:%s"

	// Availability counters per shift
	AvailabilityKeyFormat = CacheKeyPrefix + "availability:shift:%s"
)

// ShiftListKey returns the cache key for an event's public shift listing
func ShiftListKey(eventID string) string {
	return fmt.Sprintf(ShiftListKeyFormat, eventID)
}

// AvailabilityKey returns the cache key for a shift's availability counters
func AvailabilityKey(shiftID string) string {
	return fmt.Sprintf(AvailabilityKeyFormat, shiftID)
}

// AvailabilityPattern matches all availability keys, used on bulk invalidation
const AvailabilityPattern = CacheKeyPrefix + "availability:*"
