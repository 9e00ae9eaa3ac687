package logs

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const maxLineSize = 1024 * 1024

// DefaultPollInterval is how often Follow checks the file for new lines.
const DefaultPollInterval = 250 * time.Millisecond

var levelRank = map[string]int{"debug": 0, "info": 1, "warn": 2, "error": 3}

// Filter selects log lines. Zero-value fields match everything.
type Filter struct {
	// MinLevel drops lines below this level (debug, info, warn, error).
	MinLevel      string
	CorrelationID string
	Component     string
}

func (f Filter) empty() bool {
	return f.MinLevel == "" && f.CorrelationID == "" && f.Component == ""
}

// Match reports whether line passes the filter. Lines that are not JSON
// objects only match an empty filter.
func (f Filter) Match(line string) bool {
	if f.empty() {
		return true
	}
	var fields struct {
		Level         string `json:"level"`
		CorrelationID string `json:"correlation_id"`
		Component     string `json:"component"`
	}
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return false
	}
	if f.MinLevel != "" {
		want, ok := levelRank[strings.ToLower(f.MinLevel)]
		if ok && levelRank[strings.ToLower(fields.Level)] < want {
			return false
		}
	}
	if f.CorrelationID != "" && fields.CorrelationID != f.CorrelationID {
		return false
	}
	if f.Component != "" && fields.Component != f.Component {
		return false
	}
	return true
}

// Last returns up to limit of the newest lines matching f, oldest first, and
// the file offset to resume from. A missing file yields no lines. limit <= 0
// returns every matching line.
func Last(path string, limit int, f Filter) ([]string, int64, error) {
	file, err := open(path)
	if err != nil || file == nil {
		return nil, 0, err
	}
	defer file.Close()

	var ring []string
	next := 0
	err = scanLines(file, func(line string) {
		if !f.Match(line) {
			return
		}
		if limit <= 0 || len(ring) < limit {
			ring = append(ring, line)
			return
		}
		ring[next] = line
		next = (next + 1) % limit
	})
	if err != nil {
		return nil, 0, err
	}

	offset, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, 0, fmt.Errorf("determine log offset: %w", err)
	}
	if next == 0 {
		return ring, offset, nil
	}
	lines := make([]string, 0, len(ring))
	lines = append(lines, ring[next:]...)
	lines = append(lines, ring[:next]...)
	return lines, offset, nil
}

// Follow calls emit for each matching line appended after offset until ctx
// is canceled. A truncated file is read again from the start.
func Follow(ctx context.Context, path string, offset int64, f Filter, poll time.Duration, emit func(string)) error {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		next, err := readFrom(path, offset, f, emit)
		if err != nil {
			return err
		}
		offset = next

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func readFrom(path string, offset int64, f Filter, emit func(string)) (int64, error) {
	file, err := open(path)
	if err != nil || file == nil {
		return 0, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return offset, fmt.Errorf("stat log file: %w", err)
	}
	if offset < 0 || offset > info.Size() {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("seek log file: %w", err)
	}

	// Only whole lines are consumed; a partially written line is left for
	// the next poll.
	reader := bufio.NewReaderSize(file, 64*1024)
	for {
		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			return offset, nil
		}
		if err != nil {
			return offset, fmt.Errorf("read log file: %w", err)
		}
		offset += int64(len(line))
		if trimmed := strings.TrimRight(line, "\r\n"); f.Match(trimmed) {
			emit(trimmed)
		}
	}
}

func open(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("log path %q is a directory", path)
	}
	return file, nil
}

func scanLines(r io.Reader, fn func(string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		fn(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read log file: %w", err)
	}
	return nil
}
