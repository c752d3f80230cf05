// Package linestorm is an asynchronous, multiline-aware line editor for
// terminal programs that emit output while the user types.
//
// The editor owns the edit buffer, cursor arithmetic, key interpretation,
// and incremental terminal rendering. Concurrent goroutines write log or
// progress lines through a SharedWriter; the editor interleaves them above
// the prompt between input steps, so foreign output never corrupts the
// line being edited.
//
// Exactly one goroutine, the read loop, ever touches the terminal or the
// editor's state: all other access goes through message passing. A typical
// host looks like:
//
//	t, err := term.Open(os.Stdin, os.Stdout)
//	if err != nil { ... }
//	defer t.Close()
//
//	ed, err := linestorm.New(t, linestorm.DefaultConfig())
//	if err != nil { ... }
//	defer ed.Close()
//
//	log := ed.Writer()
//	go func() { fmt.Fprintln(log, "worker started") }()
//
//	for {
//		res, err := ed.ReadLine(context.Background())
//		if err != nil || res.Kind != linestorm.ResultLine {
//			break
//		}
//		// use res.Line
//	}
//
// Ctrl+C and Ctrl+D are reported as ordinary results (ResultInterrupt,
// ResultEOF), not errors; only terminal I/O failures and use after Close
// produce errors.
package linestorm
