package rpc

import (
	"container/ring"
	"sync"

	"github.com/jinzhongjia/nvimrpc/pkg/message"
)

// notificationRing buffers Notifications received while a Request is in
// flight, using the same fixed-capacity ring-buffer retention as
// pkg/minilog.Ring but holding message.Notification values instead of
// log lines. This keeps unsolicited Notifications available to a caller
// without a separate handler registry or blocking the Request in flight.
type notificationRing struct {
	mu   sync.Mutex
	r    *ring.Ring
	size int
}

func newNotificationRing(size int) *notificationRing {
	return &notificationRing{r: ring.New(size), size: size}
}

func (n *notificationRing) push(m message.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.r = n.r.Next()
	n.r.Value = m
}

// drain returns everything buffered, oldest first, and clears the ring.
func (n *notificationRing) drain() []message.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]message.Notification, 0, n.size)
	n.r.Next().Do(func(v interface{}) {
		if v == nil {
			return
		}
		out = append(out, v.(message.Notification))
	})

	n.r = ring.New(n.size)
	return out
}
