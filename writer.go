package linestorm

import (
	"bytes"
	"sync"
)

// msgQueue is the unbounded FIFO carrying foreign output to the editor
// loop. Producers never block; the consumer waits on the ready channel.
type msgQueue struct {
	mu     sync.Mutex
	msgs   [][]byte
	ready  chan struct{}
	closed bool
}

func newMsgQueue() *msgQueue {
	return &msgQueue{ready: make(chan struct{}, 1)}
}

// push enqueues a message. Returns ErrWriterClosed after close.
func (q *msgQueue) push(msg []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrWriterClosed
	}
	q.msgs = append(q.msgs, msg)
	q.signal()
	return nil
}

// pop dequeues the oldest message. The ready channel is re-armed when
// messages remain, so the loop drains one message per select pass.
func (q *msgQueue) pop() ([]byte, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.msgs) == 0 {
		return nil, false
	}
	msg := q.msgs[0]
	q.msgs = q.msgs[1:]
	if len(q.msgs) > 0 {
		q.signal()
	}
	return msg, true
}

// signal raises the ready flag without blocking. Callers hold q.mu.
func (q *msgQueue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// close marks the queue closed; subsequent pushes fail fast.
func (q *msgQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
}

// SharedWriter is the cloneable producer handle for writing output above
// the prompt. It implements io.Writer and is safe for concurrent use; any
// number of goroutines may hold handles.
//
// Writes are buffered until a newline so that concurrent writers cannot
// interleave partial lines; Flush pushes out an incomplete line early.
// Messages are flushed to the terminal in enqueue order, between input
// steps, never mid-keystroke.
type SharedWriter struct {
	queue *msgQueue

	mu  sync.Mutex
	buf bytes.Buffer
}

// Write buffers p and enqueues every completed line. It never blocks on
// the terminal; returns ErrWriterClosed after the editor has shut down.
func (w *SharedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	data := w.buf.Bytes()
	last := bytes.LastIndexByte(data, '\n')
	if last < 0 {
		return len(p), nil
	}

	msg := make([]byte, last+1)
	copy(msg, data[:last+1])
	rest := append([]byte(nil), data[last+1:]...)
	w.buf.Reset()
	w.buf.Write(rest)

	if err := w.queue.push(msg); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Flush enqueues any buffered partial line without waiting for a newline.
// The renderer keeps the visual line open so a later write continues it.
func (w *SharedWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() == 0 {
		return nil
	}
	msg := append([]byte(nil), w.buf.Bytes()...)
	w.buf.Reset()
	return w.queue.push(msg)
}
