package common

import (
	"iter"
	"slices"
	"sync"
)

// QueueProcessor is a function that processes a batch of items from the queue.
type QueueProcessor[V any] func(items []V)

// QueueHandler collects items and hands them to the processor in chunks on
// a background goroutine.
type QueueHandler[V any] struct {
	mu        sync.Mutex
	queue     []V
	processor QueueProcessor[V]
	chunkSize int
	notify    chan struct{}
	done      chan struct{}
	idle      sync.Cond
	busy      bool
}

// NewQueueHandler creates a new QueueHandler.
func NewQueueHandler[V any](processor QueueProcessor[V], chunkSize int) *QueueHandler[V] {
	q := &QueueHandler[V]{
		queue:     make([]V, 0),
		processor: processor,
		chunkSize: max(1, chunkSize),
		notify:    make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	q.idle.L = &q.mu
	go q.processQueue()
	return q
}

// Add adds items to the queue.
func (h *QueueHandler[V]) Add(item ...V) {
	h.mu.Lock()
	h.queue = append(h.queue, item...)
	h.mu.Unlock()
	h.signal()
}

func (h *QueueHandler[V]) AddIter(item iter.Seq[V]) {
	h.Add(slices.Collect(item)...)
}

func (h *QueueHandler[V]) signal() {
	select {
	case h.notify <- struct{}{}:
	default:
	}
}

// Wait blocks until the queue is drained.
func (h *QueueHandler[V]) Wait() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for len(h.queue) > 0 || h.busy {
		h.idle.Wait()
	}
}

// Close stops the background goroutine, queued items are dropped.
func (h *QueueHandler[V]) Close() {
	close(h.done)
}

func (h *QueueHandler[V]) processQueue() {
	for {
		select {
		case <-h.done:
			return
		case <-h.notify:
		}
		for {
			h.mu.Lock()
			if len(h.queue) == 0 {
				h.busy = false
				h.idle.Broadcast()
				h.mu.Unlock()
				break
			}
			items := h.queue[:min(h.chunkSize, len(h.queue))]
			h.queue = h.queue[len(items):]
			h.busy = true
			h.mu.Unlock()

			h.processor(items)
		}
	}
}
