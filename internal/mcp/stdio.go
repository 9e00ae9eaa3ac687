package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"mediabridge/internal/logging"
	"mediabridge/internal/services"
)

const maxMessageSize = 4 * 1024 * 1024

// ServeStdio reads line-delimited JSON-RPC messages from r and writes
// responses to w until r reaches EOF or ctx is canceled. Tool calls run in
// their own goroutines; ServeStdio waits for them before returning.
func (s *Server) ServeStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	ctx = services.WithTransport(ctx, "stdio")
	ctx, cancelAll := context.WithCancel(ctx)
	defer cancelAll()

	out := &lineWriter{w: w}
	calls := &callTracker{cancels: make(map[string]context.CancelFunc)}

	lines := make(chan []byte)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), maxMessageSize)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				wg.Wait()
				if err := <-scanErr; err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				return nil
			}
			s.dispatchLine(ctx, line, out, calls, &wg)
		}
	}
}

func (s *Server) dispatchLine(ctx context.Context, line []byte, out *lineWriter, calls *callTracker, wg *sync.WaitGroup) {
	if len(line) == 0 {
		return
	}
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		s.logger.Debug("discarding malformed message", logging.Error(err))
		out.write(newError(nil, CodeParseError, "parse error"))
		return
	}

	if req.Method == MethodCancelled {
		var params cancelledParams
		if err := json.Unmarshal(req.Params, &params); err == nil {
			calls.cancel(string(params.RequestID))
		}
		return
	}

	if req.Method != MethodToolsCall {
		if resp := s.Handle(ctx, &req, nil); resp != nil {
			out.write(resp)
		}
		return
	}

	// Tool calls never run on the read loop, so cancellations keep flowing
	// while an encoder is busy.
	if req.IsNotification() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Handle(ctx, &req, nil)
		}()
		return
	}

	callCtx, cancel := context.WithCancel(ctx)
	key := string(req.ID)
	if !calls.add(key, cancel) {
		cancel()
		out.write(newError(req.ID, CodeInvalidRequest, "request id already in flight: "+key))
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer calls.done(key)
		resp := s.Handle(callCtx, &req, func(n Notification) { out.write(n) })
		if resp != nil {
			out.write(resp)
		}
	}()
}

// lineWriter serializes JSON messages, one per line.
type lineWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lineWriter) write(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	data = append(data, '\n')
	lw.mu.Lock()
	defer lw.mu.Unlock()
	_, _ = lw.w.Write(data)
}

type callTracker struct {
	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// add registers cancel under id. It reports false, leaving the running call
// untouched, when id is already in flight.
func (c *callTracker) add(id string, cancel context.CancelFunc) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.cancels[id]; busy {
		return false
	}
	c.cancels[id] = cancel
	return true
}

func (c *callTracker) done(id string) {
	c.mu.Lock()
	if cancel, ok := c.cancels[id]; ok {
		cancel()
		delete(c.cancels, id)
	}
	c.mu.Unlock()
}

func (c *callTracker) cancel(id string) {
	c.mu.Lock()
	cancel, ok := c.cancels[id]
	c.mu.Unlock()
	if ok {
		cancel()
	}
}
