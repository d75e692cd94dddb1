package event

// Queue is a typed event channel with independent reader cursors. Events
// accumulate in order; each registered reader consumes from its own position,
// so two systems reading the same queue both see every event exactly once.
//
// Compact drops events that every reader has consumed. Call it once per tick
// (cleanup phase) to keep the buffer bounded.
type Queue[T any] struct {
	events  []T
	offset  uint64 // absolute index of events[0]
	cursors []uint64
}

// ReaderID identifies a registered consumer of a Queue.
type ReaderID int

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{
		events: make([]T, 0, 64),
	}
}

// Register adds a reader positioned at the current end of the queue.
func (q *Queue[T]) Register() ReaderID {
	q.cursors = append(q.cursors, q.offset+uint64(len(q.events)))
	return ReaderID(len(q.cursors) - 1)
}

// Push appends an event for all readers.
func (q *Queue[T]) Push(ev T) {
	q.events = append(q.events, ev)
}

// Read returns the events the reader has not yet seen and advances its
// cursor past them. The returned slice aliases the internal buffer and is
// valid until the next Compact.
func (q *Queue[T]) Read(r ReaderID) []T {
	start := q.cursors[r] - q.offset
	q.cursors[r] = q.offset + uint64(len(q.events))
	return q.events[start:]
}

// Compact discards events consumed by every reader. With no readers it
// discards everything.
func (q *Queue[T]) Compact() {
	low := q.offset + uint64(len(q.events))
	for _, c := range q.cursors {
		if c < low {
			low = c
		}
	}
	drop := low - q.offset
	if drop == 0 {
		return
	}
	n := copy(q.events, q.events[drop:])
	q.events = q.events[:n]
	q.offset = low
}

// Len returns the number of buffered events.
func (q *Queue[T]) Len() int { return len(q.events) }
