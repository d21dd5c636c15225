package reconcile

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var (
	lastBookingMillis atomic.Int64
	// bookingNode tells apart ids minted in the same millisecond by different replicas.
	bookingNode = newBookingNode()
)

func newBookingNode() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
}

// nextBookingID returns BKG-<unix millis>-<node>. The millis part is bumped
// forward when two bookings fall in the same millisecond in this process.
func nextBookingID(now time.Time) string {
	ms := now.UnixMilli()
	for {
		last := lastBookingMillis.Load()
		next := ms
		if next <= last {
			next = last + 1
		}
		if lastBookingMillis.CompareAndSwap(last, next) {
			return formatBookingID(next, bookingNode)
		}
	}
}

func formatBookingID(millis int64, node string) string {
	return fmt.Sprintf("BKG-%d-%s", millis, node)
}
