package logger

import (
	"bytes"
	"io"
	"sync"
)

// HeldWriter forwards writes to an underlying writer, except between Hold
// and Release, when they are queued and written out on Release. It lets a
// full-screen spinner own the terminal without log lines tearing through it.
type HeldWriter struct {
	mu   sync.Mutex
	out  io.Writer
	buf  bytes.Buffer
	held bool
}

// NewHeldWriter returns a HeldWriter that is not holding.
func NewHeldWriter(out io.Writer) *HeldWriter {
	return &HeldWriter{out: out}
}

func (w *HeldWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.held {
		return w.buf.Write(p)
	}
	return w.out.Write(p)
}

// Hold starts queueing writes.
func (w *HeldWriter) Hold() {
	w.mu.Lock()
	w.held = true
	w.mu.Unlock()
}

// Release writes everything queued since Hold and stops queueing.
func (w *HeldWriter) Release() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.held = false
	_, err := w.buf.WriteTo(w.out)
	return err
}
