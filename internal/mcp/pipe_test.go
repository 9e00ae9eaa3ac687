package mcp_test

import (
	"bytes"
	"io"
	"sync"
)

type pipeWriter struct{ w *io.PipeWriter }

func newPipe() (*io.PipeReader, pipeWriter) {
	r, w := io.Pipe()
	return r, pipeWriter{w: w}
}

func (p pipeWriter) line(s string) { _, _ = p.w.Write([]byte(s + "\n")) }

func (p pipeWriter) close() { _ = p.w.Close() }

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
