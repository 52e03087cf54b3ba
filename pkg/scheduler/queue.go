package scheduler

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/df07/mirror-raytracer/pkg/render"
)

// workQueue is the shared queue of tile work one render pass drains. It
// closes itself exactly once every tile handed to newWorkQueue has been
// accounted for via complete, and pushes made after that point are dropped
// instead of panicking on a closed channel.
type workQueue struct {
	mu     sync.Mutex
	ch     chan render.TileRenderWork
	closed bool
}

func newWorkQueue(tiles []render.TileRenderWork) *workQueue {
	q := &workQueue{ch: make(chan render.TileRenderWork, len(tiles))}
	for _, t := range tiles {
		q.ch <- t
	}
	return q
}

// push re-enqueues item for another worker to pick up. A no-op once the
// queue has already closed.
func (q *workQueue) push(item render.TileRenderWork) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.ch <- item
}

// pushBatch re-enqueues every item in batch; see push.
func (q *workQueue) pushBatch(batch []render.TileRenderWork) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	for _, item := range batch {
		q.ch <- item
	}
}

// complete marks n tiles as finished against remaining, closing the queue
// once every tile enqueued at construction has been accounted for. Safe to
// call from many goroutines: exactly one call observes the crossing to zero
// and performs the close.
func (q *workQueue) complete(remaining *atomic.Int64, n int64) {
	if remaining.Sub(n) > 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
}
