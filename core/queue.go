package core

// messageQueue is an unbounded FIFO of messages waiting to be received.
type messageQueue struct {
	items []int64
}

// Push appends v to the back of the queue.
func (q *messageQueue) Push(v int64) {
	q.items = append(q.items, v)
}

// Pop removes and returns the front of the queue.
func (q *messageQueue) Pop() (int64, bool) {
	if len(q.items) == 0 {
		return 0, false
	}

	v := q.items[0]
	q.items = q.items[1:]

	if len(q.items) == 0 {
		q.items = nil
	}

	return v, true
}

// Size returns the number of queued messages.
func (q *messageQueue) Size() int {
	return len(q.items)
}

// Snapshot returns a copy of the queued messages, front first.
func (q *messageQueue) Snapshot() []int64 {
	return append([]int64(nil), q.items...)
}
