package binimg

import "sync"

// WorkItem is the path of one input file waiting for conversion.
type WorkItem string

// WorkQueue is a bounded FIFO of work items shared by a single producer and many consumers.
// Besides the atomic dequeue it tracks the items which are still being processed,
// so that Wait only returns when every queued item has been marked as done.
type WorkQueue struct {
	items  chan WorkItem
	closed chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// NewWorkQueue creates a queue which holds at most capacity pending items.
func NewWorkQueue(capacity int) *WorkQueue {
	if capacity < 0 {
		capacity = 0
	}
	return &WorkQueue{
		items:  make(chan WorkItem, capacity),
		closed: make(chan struct{}),
	}
}

// Put enqueues an item, blocking while the queue is full.
// It must not be called after Close.
func (q *WorkQueue) Put(item WorkItem) {
	q.wg.Add(1)
	q.items <- item
}

// Close signals that no more items will be enqueued.
func (q *WorkQueue) Close() {
	q.once.Do(func() {
		close(q.items)
		close(q.closed)
	})
}

// Get dequeues the next item. It blocks while the queue is empty but still open,
// and returns false once the queue is closed and drained.
func (q *WorkQueue) Get() (WorkItem, bool) {
	item, ok := <-q.items
	return item, ok
}

// Done marks a previously dequeued item as fully processed.
func (q *WorkQueue) Done() {
	q.wg.Done()
}

// Wait blocks until the queue is closed and every enqueued item has been marked as done.
func (q *WorkQueue) Wait() {
	<-q.closed
	q.wg.Wait()
}
