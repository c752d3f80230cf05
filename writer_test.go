package linestorm

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestSharedWriterCompleteLine(t *testing.T) {
	q := newMsgQueue()
	w := &SharedWriter{queue: q}

	n, err := w.Write([]byte("hello\n"))
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if n != 6 {
		t.Errorf("expected n=6, got %d", n)
	}

	msg, ok := q.pop()
	if !ok || string(msg) != "hello\n" {
		t.Errorf("expected (hello\\n, true), got (%q, %v)", msg, ok)
	}
}

func TestSharedWriterBuffersPartialLine(t *testing.T) {
	q := newMsgQueue()
	w := &SharedWriter{queue: q}

	if _, err := w.Write([]byte("par")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if _, ok := q.pop(); ok {
		t.Fatal("partial line should not be enqueued")
	}

	if _, err := w.Write([]byte("tial\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	msg, ok := q.pop()
	if !ok || string(msg) != "partial\n" {
		t.Errorf("expected completed line, got (%q, %v)", msg, ok)
	}
}

func TestSharedWriterSplitsAtLastNewline(t *testing.T) {
	q := newMsgQueue()
	w := &SharedWriter{queue: q}

	if _, err := w.Write([]byte("one\ntwo\npar")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	msg, ok := q.pop()
	if !ok || string(msg) != "one\ntwo\n" {
		t.Errorf("expected complete lines only, got (%q, %v)", msg, ok)
	}

	if _, ok := q.pop(); ok {
		t.Error("trailing partial line should stay buffered")
	}
}

func TestSharedWriterFlush(t *testing.T) {
	q := newMsgQueue()
	w := &SharedWriter{queue: q}

	if _, err := w.Write([]byte("par")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	msg, ok := q.pop()
	if !ok || string(msg) != "par" {
		t.Errorf("expected flushed partial line, got (%q, %v)", msg, ok)
	}
}

func TestSharedWriterFlushEmptyIsNoOp(t *testing.T) {
	q := newMsgQueue()
	w := &SharedWriter{queue: q}

	if err := w.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if _, ok := q.pop(); ok {
		t.Error("empty flush should enqueue nothing")
	}
}

func TestSharedWriterAfterClose(t *testing.T) {
	q := newMsgQueue()
	w := &SharedWriter{queue: q}
	q.close()

	if _, err := w.Write([]byte("line\n")); !errors.Is(err, ErrWriterClosed) {
		t.Errorf("expected ErrWriterClosed, got %v", err)
	}
}

func TestMsgQueueOrder(t *testing.T) {
	q := newMsgQueue()
	for i := 0; i < 3; i++ {
		if err := q.push([]byte{byte('a' + i)}); err != nil {
			t.Fatalf("push failed: %v", err)
		}
	}

	for i := 0; i < 3; i++ {
		msg, ok := q.pop()
		if !ok || msg[0] != byte('a'+i) {
			t.Fatalf("expected %q at position %d, got (%q, %v)", 'a'+i, i, msg, ok)
		}
	}

	if _, ok := q.pop(); ok {
		t.Error("expected empty queue")
	}
}

func TestMsgQueueReadyReArmed(t *testing.T) {
	q := newMsgQueue()
	q.push([]byte("a"))
	q.push([]byte("b"))

	<-q.ready
	q.pop()

	// A message remains, so the ready flag must be raised again.
	select {
	case <-q.ready:
	default:
		t.Fatal("expected ready signal while messages remain")
	}
}

func TestSharedWriterConcurrentLinesStayWhole(t *testing.T) {
	q := newMsgQueue()
	w := &SharedWriter{queue: q}

	const writers = 8
	const lines = 50

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < lines; j++ {
				fmt.Fprintf(w, "writer-%d line-%d\n", id, j)
			}
		}(i)
	}
	wg.Wait()

	// Every enqueued message is a sequence of whole lines.
	total := 0
	for {
		msg, ok := q.pop()
		if !ok {
			break
		}
		if len(msg) == 0 || msg[len(msg)-1] != '\n' {
			t.Fatalf("message does not end at a line boundary: %q", msg)
		}
		for _, line := range splitLines(msg) {
			total++
			var id, n int
			if _, err := fmt.Sscanf(line, "writer-%d line-%d", &id, &n); err != nil {
				t.Fatalf("interleaved or torn line %q: %v", line, err)
			}
		}
	}
	if total != writers*lines {
		t.Errorf("expected %d lines, got %d", writers*lines, total)
	}
}

func splitLines(msg []byte) []string {
	var out []string
	start := 0
	for i, b := range msg {
		if b == '\n' {
			out = append(out, string(msg[start:i]))
			start = i + 1
		}
	}
	return out
}
