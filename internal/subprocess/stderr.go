package subprocess

import (
	"bytes"
	"strings"
	"sync"
)

const (
	// maxLineSize caps a single unterminated stderr line.
	maxLineSize = 64 * 1024
	// maxStderrLines is how many recent stderr lines are kept for error
	// reporting. The callback still receives every line.
	maxStderrLines = 200
)

// stderrWriter splits the child's stderr into lines, keeps the most recent
// ones and forwards each to an optional callback. It is assigned to
// exec.Cmd.Stderr, so writes come from a single copying goroutine.
type stderrWriter struct {
	callback func(string)

	mu      sync.Mutex
	partial []byte
	lines   []string
}

func newStderrWriter(callback func(string)) *stderrWriter {
	return &stderrWriter{callback: callback}
}

func (w *stderrWriter) Write(p []byte) (int, error) {
	n := len(p)

	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			w.partial = append(w.partial, p...)
			if len(w.partial) >= maxLineSize {
				w.emit(string(w.partial))
				w.partial = w.partial[:0]
			}

			break
		}

		w.partial = append(w.partial, p[:i]...)
		w.emit(strings.TrimSuffix(string(w.partial), "\r"))
		w.partial = w.partial[:0]
		p = p[i+1:]
	}

	return n, nil
}

// flush emits a trailing line that had no newline.
func (w *stderrWriter) flush() {
	if len(w.partial) > 0 {
		w.emit(string(w.partial))
		w.partial = nil
	}
}

func (w *stderrWriter) emit(line string) {
	w.mu.Lock()

	w.lines = append(w.lines, line)
	if len(w.lines) > maxStderrLines {
		w.lines = w.lines[len(w.lines)-maxStderrLines:]
	}

	w.mu.Unlock()

	if w.callback != nil {
		w.callback(line)
	}
}

// String returns the retained lines joined by newlines.
func (w *stderrWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return strings.Join(w.lines, "\n")
}
