// Package telemetry turns orchestration phases into OpenTelemetry spans and
// forwards them to a progress renderer.
package telemetry

import (
	"bytes"
	"sync"

	"go.trai.ch/zerr"
)

var errWriterClosed = zerr.New("line writer is closed")

// LineWriter splits written bytes into lines and hands each complete line to
// a callback in write order. It is safe for concurrent use.
type LineWriter struct {
	onLine func(string)

	mu     sync.Mutex
	buffer bytes.Buffer
	closed bool
}

// NewLineWriter returns a LineWriter that calls onLine once per line.
func NewLineWriter(onLine func(string)) *LineWriter {
	return &LineWriter{onLine: onLine}
}

// Write buffers p and emits every line it completes.
func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, errWriterClosed
	}

	w.buffer.Write(p)
	for {
		i := bytes.IndexByte(w.buffer.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := w.buffer.Next(i + 1)
		w.emitLocked(line[:i])
	}
	return len(p), nil
}

// Close emits a trailing partial line, if any. Further writes fail.
func (w *LineWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.buffer.Len() > 0 {
		w.emitLocked(w.buffer.Bytes())
		w.buffer.Reset()
	}
	return nil
}

// emitLocked must be called with mu held.
func (w *LineWriter) emitLocked(line []byte) {
	line = bytes.TrimSuffix(line, []byte("\r"))
	if w.onLine != nil {
		w.onLine(string(line))
	}
}
