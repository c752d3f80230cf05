package linestorm

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dshills/linestorm/key"
)

// fakeTerm is an in-memory Terminal for driving the editor in tests.
type fakeTerm struct {
	events  chan key.Event
	resizes chan Size
	size    Size

	mu  sync.Mutex
	out bytes.Buffer
}

func newFakeTerm() *fakeTerm {
	return &fakeTerm{
		events:  make(chan key.Event, 64),
		resizes: make(chan Size, 4),
		size:    Size{Cols: 80, Rows: 24},
	}
}

func (t *fakeTerm) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.out.Write(p)
}

func (t *fakeTerm) Events() <-chan key.Event { return t.events }
func (t *fakeTerm) Resizes() <-chan Size     { return t.resizes }
func (t *fakeTerm) Size() (Size, error)      { return t.size, nil }

func (t *fakeTerm) output() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.out.String()
}

// typeString queues one rune event per character.
func (t *fakeTerm) typeString(s string) {
	for _, r := range s {
		t.events <- key.NewRuneEvent(r, key.ModNone)
	}
}

func (t *fakeTerm) press(k key.Key, mods key.Modifier) {
	t.events <- key.NewSpecialEvent(k, mods)
}

func (t *fakeTerm) ctrl(r rune) {
	t.events <- key.NewRuneEvent(r, key.ModCtrl)
}

func newTestEditor(t *testing.T) (*Editor, *fakeTerm) {
	t.Helper()
	term := newFakeTerm()
	ed, err := New(term, DefaultConfig())
	if err != nil {
		t.Fatalf("creating editor: %v", err)
	}
	return ed, term
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestReadLineSubmit(t *testing.T) {
	ed, term := newTestEditor(t)
	term.typeString("hi")
	term.press(key.KeyEnter, key.ModNone)

	res, err := ed.ReadLine(context.Background())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if res.Kind != ResultLine || res.Line != "hi" {
		t.Errorf("expected line %q, got %+v", "hi", res)
	}

	if got := ed.History(); !reflect.DeepEqual(got, []string{"hi"}) {
		t.Errorf("expected history [hi], got %v", got)
	}
}

func TestReadLineMultiline(t *testing.T) {
	ed, term := newTestEditor(t)
	term.typeString("line1")
	term.press(key.KeyEnter, key.ModAlt)
	term.typeString("line2")
	term.press(key.KeyEnter, key.ModNone)

	res, err := ed.ReadLine(context.Background())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if res.Line != "line1\nline2" {
		t.Errorf("expected %q, got %q", "line1\nline2", res.Line)
	}
}

func TestReadLineInterrupt(t *testing.T) {
	ed, term := newTestEditor(t)
	term.typeString("abandoned")
	term.ctrl('c')

	res, err := ed.ReadLine(context.Background())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if res.Kind != ResultInterrupt {
		t.Errorf("expected interrupt, got %+v", res)
	}
	if len(ed.History()) != 0 {
		t.Errorf("interrupted line must not enter history, got %v", ed.History())
	}
}

func TestReadLineEOFOnEmptyBuffer(t *testing.T) {
	ed, term := newTestEditor(t)
	term.ctrl('d')

	res, err := ed.ReadLine(context.Background())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if res.Kind != ResultEOF {
		t.Errorf("expected EOF, got %+v", res)
	}
}

func TestReadLineCtrlDDeletesBeforeEOF(t *testing.T) {
	ed, term := newTestEditor(t)
	term.typeString("x")
	term.press(key.KeyHome, key.ModNone)
	term.ctrl('d') // deletes the x
	term.ctrl('d') // buffer now empty: EOF

	res, err := ed.ReadLine(context.Background())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if res.Kind != ResultEOF {
		t.Errorf("expected EOF after deleting last character, got %+v", res)
	}
}

func TestReadLineWordMotion(t *testing.T) {
	ed, term := newTestEditor(t)
	term.typeString("foo bar")
	term.press(key.KeyLeft, key.ModCtrl)
	term.press(key.KeyLeft, key.ModCtrl)
	term.typeString("X")
	term.press(key.KeyEnter, key.ModNone)

	res, err := ed.ReadLine(context.Background())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if res.Line != "Xfoo bar" {
		t.Errorf("expected %q, got %q", "Xfoo bar", res.Line)
	}
}

func TestReadLineHistoryRecall(t *testing.T) {
	ed, term := newTestEditor(t)

	term.typeString("first")
	term.press(key.KeyEnter, key.ModNone)
	if _, err := ed.ReadLine(context.Background()); err != nil {
		t.Fatalf("read failed: %v", err)
	}

	term.press(key.KeyUp, key.ModNone)
	term.press(key.KeyEnter, key.ModNone)
	res, err := ed.ReadLine(context.Background())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if res.Line != "first" {
		t.Errorf("expected recalled %q, got %q", "first", res.Line)
	}
}

func TestReadLineHistoryDraftRestored(t *testing.T) {
	ed, term := newTestEditor(t)

	term.typeString("first")
	term.press(key.KeyEnter, key.ModNone)
	if _, err := ed.ReadLine(context.Background()); err != nil {
		t.Fatalf("read failed: %v", err)
	}

	// Start a draft, browse away, and come back.
	term.typeString("draft")
	term.press(key.KeyUp, key.ModNone)
	term.press(key.KeyDown, key.ModNone)
	term.press(key.KeyEnter, key.ModNone)

	res, err := ed.ReadLine(context.Background())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if res.Line != "draft" {
		t.Errorf("expected restored draft, got %q", res.Line)
	}
}

func TestReadLineHistoryDraftDiscardedAfterEdit(t *testing.T) {
	ed, term := newTestEditor(t)

	term.typeString("first")
	term.press(key.KeyEnter, key.ModNone)
	if _, err := ed.ReadLine(context.Background()); err != nil {
		t.Fatalf("read failed: %v", err)
	}

	// Browse to the entry, edit it: browsing ends, the draft is gone.
	term.typeString("draft")
	term.press(key.KeyUp, key.ModNone)
	term.typeString("X")
	term.press(key.KeyDown, key.ModNone) // cursor motion now, not history
	term.press(key.KeyEnter, key.ModNone)

	res, err := ed.ReadLine(context.Background())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if res.Line != "firstX" {
		t.Errorf("expected edited entry %q, got %q", "firstX", res.Line)
	}
}

func TestReadLineUpDownMoveCursorInMultilineBuffer(t *testing.T) {
	ed, term := newTestEditor(t)

	term.typeString("first")
	term.press(key.KeyEnter, key.ModNone)
	if _, err := ed.ReadLine(context.Background()); err != nil {
		t.Fatalf("read failed: %v", err)
	}

	// With the cursor on the second logical line, Up is cursor motion, so
	// no history entry is recalled.
	term.typeString("aa")
	term.press(key.KeyEnter, key.ModAlt)
	term.typeString("bb")
	term.press(key.KeyUp, key.ModNone)
	term.typeString("X")
	term.press(key.KeyEnter, key.ModNone)

	res, err := ed.ReadLine(context.Background())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if res.Line != "aaX\nbb" {
		t.Errorf("expected %q, got %q", "aaX\nbb", res.Line)
	}
}

func TestReadLineContextCancel(t *testing.T) {
	ed, _ := newTestEditor(t)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := ed.ReadLine(ctx)
		errc <- err
	}()

	cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("read did not return after cancel")
	}
}

func TestReadLineAfterClose(t *testing.T) {
	ed, _ := newTestEditor(t)
	if err := ed.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if _, err := ed.ReadLine(context.Background()); !errors.Is(err, ErrEditorClosed) {
		t.Errorf("expected ErrEditorClosed, got %v", err)
	}

	if _, err := ed.Writer().Write([]byte("x\n")); !errors.Is(err, ErrWriterClosed) {
		t.Errorf("expected ErrWriterClosed, got %v", err)
	}

	if err := ed.Close(); !errors.Is(err, ErrEditorClosed) {
		t.Errorf("expected ErrEditorClosed from second close, got %v", err)
	}
}

func TestCloseUnblocksRead(t *testing.T) {
	ed, _ := newTestEditor(t)

	errc := make(chan error, 1)
	go func() {
		_, err := ed.ReadLine(context.Background())
		errc <- err
	}()

	// Give the read a moment to reach its select loop.
	time.Sleep(10 * time.Millisecond)
	if err := ed.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	select {
	case err := <-errc:
		if !errors.Is(err, ErrEditorClosed) {
			t.Errorf("expected ErrEditorClosed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("read did not return after close")
	}
}

func TestReadLineInputStreamClosed(t *testing.T) {
	ed, term := newTestEditor(t)
	close(term.events)

	if _, err := ed.ReadLine(context.Background()); !errors.Is(err, ErrInputClosed) {
		t.Errorf("expected ErrInputClosed, got %v", err)
	}
}

func TestWriterOutputAppearsAbovePrompt(t *testing.T) {
	ed, term := newTestEditor(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = ed.ReadLine(context.Background())
	}()

	// Wait for the initial prompt, then type a partial line.
	waitFor(t, func() bool { return strings.Contains(term.output(), "> ") }, "initial prompt")
	term.typeString("partial inp")
	waitFor(t, func() bool { return strings.Contains(term.output(), "> partial inp") }, "typed text")

	w := ed.Writer()
	if _, err := w.Write([]byte("log: started\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	// The message lands above the repainted prompt line.
	waitFor(t, func() bool {
		return strings.Contains(term.output(), "log: started\r\n> partial inp")
	}, "flushed output above prompt")

	term.press(key.KeyEnter, key.ModNone)
	<-done
}

func TestWriterOrderPreserved(t *testing.T) {
	ed, term := newTestEditor(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = ed.ReadLine(context.Background())
	}()

	w := ed.Writer()
	for _, line := range []string{"one\n", "two\n", "three\n"} {
		if _, err := w.Write([]byte(line)); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	waitFor(t, func() bool {
		out := term.output()
		i := strings.Index(out, "one")
		j := strings.Index(out, "two")
		k := strings.Index(out, "three")
		return i >= 0 && j > i && k > j
	}, "messages in order")

	term.press(key.KeyEnter, key.ModNone)
	<-done
}

func TestSetPromptRepaintsDuringRead(t *testing.T) {
	ed, term := newTestEditor(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = ed.ReadLine(context.Background())
	}()

	waitFor(t, func() bool { return strings.Contains(term.output(), "> ") }, "initial prompt")

	if err := ed.SetPrompt("$$ "); err != nil {
		t.Fatalf("set prompt failed: %v", err)
	}

	waitFor(t, func() bool { return strings.Contains(term.output(), "$$ ") }, "new prompt")

	term.press(key.KeyEnter, key.ModNone)
	<-done
}

func TestResizeRewrapsBlock(t *testing.T) {
	ed, term := newTestEditor(t)

	term.typeString("abcdef")
	term.resizes <- Size{Cols: 5, Rows: 24}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = ed.ReadLine(context.Background())
	}()

	waitFor(t, func() bool {
		return strings.Contains(term.output(), "> abc\r\ndef")
	}, "rewrapped block")

	term.press(key.KeyEnter, key.ModNone)
	<-done
}

func TestSetHistory(t *testing.T) {
	ed, term := newTestEditor(t)

	if err := ed.SetHistory([]string{"alpha", "beta"}); err != nil {
		t.Fatalf("set history failed: %v", err)
	}

	term.press(key.KeyUp, key.ModNone)
	term.press(key.KeyEnter, key.ModNone)

	res, err := ed.ReadLine(context.Background())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if res.Line != "beta" {
		t.Errorf("expected newest loaded entry, got %q", res.Line)
	}
}

func TestHistoryAccessibleDuringRead(t *testing.T) {
	ed, term := newTestEditor(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = ed.ReadLine(context.Background())
	}()

	waitFor(t, func() bool { return strings.Contains(term.output(), "> ") }, "initial prompt")

	// Both accessors must return while the read is still blocked on input.
	got := make(chan []string, 1)
	go func() {
		if err := ed.SetHistory([]string{"alpha"}); err != nil {
			t.Errorf("set history failed: %v", err)
		}
		got <- ed.History()
	}()

	select {
	case entries := <-got:
		if !reflect.DeepEqual(entries, []string{"alpha"}) {
			t.Errorf("expected [alpha], got %v", entries)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("history access blocked behind an in-flight read")
	}

	term.press(key.KeyEnter, key.ModNone)
	<-done
}

func TestHistoryReadableAfterClose(t *testing.T) {
	ed, term := newTestEditor(t)

	term.typeString("keep me")
	term.press(key.KeyEnter, key.ModNone)
	if _, err := ed.ReadLine(context.Background()); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if err := ed.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if got := ed.History(); !reflect.DeepEqual(got, []string{"keep me"}) {
		t.Errorf("expected entries preserved after close, got %v", got)
	}
}

func TestNewRejectsNilTerminal(t *testing.T) {
	if _, err := New(nil, DefaultConfig()); err == nil {
		t.Fatal("expected error for nil terminal")
	}
}

func TestResultKindString(t *testing.T) {
	tests := []struct {
		kind ResultKind
		want string
	}{
		{ResultLine, "line"},
		{ResultInterrupt, "interrupt"},
		{ResultEOF, "eof"},
		{ResultKind(9), "ResultKind(9)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
