package mqtt

import (
	"context"
	"sort"
	"strings"
	"time"
)

// DefaultDiscoverTimeout defines the default timeout value of discovery.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// Discover collects the IDs of rovers publishing status, including
// retained ones, until timeout. The result is sorted.
func Discover(ctx context.Context, q *Queue, timeout time.Duration) ([]string, error) {
	idCh := make(chan string, 16)
	sub := q.Sub("rover/+/status", func(topic string, _ []byte) {
		items := strings.Split(topic, "/")
		if len(items) != 3 {
			return
		}
		select {
		case idCh <- items[1]:
		case <-time.After(time.Second):
		}
	})
	defer sub.Close()

	if timeout <= 0 {
		timeout = DefaultDiscoverTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	found := make(map[string]bool)
	for {
		select {
		case id := <-idCh:
			found[id] = true
		case <-timer.C:
			ids := make([]string, 0, len(found))
			for id := range found {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			return ids, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
