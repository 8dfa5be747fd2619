package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// DefaultPoll is how often Tail checks a followed file for appended lines.
const DefaultPoll = 250 * time.Millisecond

// TailOptions selects how much of a log file Tail emits and whether it keeps
// watching for more.
type TailOptions struct {
	// Lines is the number of trailing lines emitted before following.
	// Zero starts at the current end of the file; a negative value emits
	// the whole file.
	Lines int
	// Follow keeps polling for appended lines until the context is
	// cancelled.
	Follow bool
	// Poll overrides the follow poll interval.
	Poll time.Duration
}

// Tail passes lines from the log file at path to emit, oldest first. With
// Follow set it keeps emitting appended lines and returns the context error
// once interrupted. Partial trailing lines are held back until the writer
// completes them.
func Tail(ctx context.Context, path string, opts TailOptions, emit func(string)) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("log file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("log path %q is a directory", path)
	}

	var offset int64
	switch {
	case opts.Lines == 0:
		offset = info.Size()
	case opts.Lines < 0:
		lines, end, err := readForward(path, 0)
		if err != nil {
			return err
		}
		for _, line := range lines {
			emit(line)
		}
		offset = end
	default:
		lines, end, err := readLastLines(path, opts.Lines)
		if err != nil {
			return err
		}
		for _, line := range lines {
			emit(line)
		}
		offset = end
	}

	if !opts.Follow {
		return nil
	}

	poll := opts.Poll
	if poll <= 0 {
		poll = DefaultPoll
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if info, err := os.Stat(path); err == nil && info.Size() < offset {
			// Truncated, for example by a server restart. Start over.
			offset = 0
		}
		lines, end, err := readForward(path, offset)
		if err != nil {
			return err
		}
		for _, line := range lines {
			emit(line)
		}
		offset = end
	}
}

// readForward returns the complete lines between offset and the end of the
// file, along with the offset just past the last complete line. A missing
// file reads as empty so follow mode survives rotation.
func readForward(path string, offset int64) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, offset, nil
		}
		return nil, offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("seek log file: %w", err)
	}

	reader := bufio.NewReader(file)
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		switch {
		case err == nil:
			lines = append(lines, strings.TrimSuffix(line, "\n"))
			offset += int64(len(line))
		case errors.Is(err, io.EOF):
			return lines, offset, nil
		default:
			return lines, offset, fmt.Errorf("read log file: %w", err)
		}
	}
}

// readLastLines returns the last limit complete lines of the file and the
// offset just past them, keeping only limit lines in memory.
func readLastLines(path string, limit int) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	ring := make([]string, limit)
	count, idx := 0, 0
	var offset int64
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, 0, fmt.Errorf("read log file: %w", err)
		}
		ring[idx] = strings.TrimSuffix(line, "\n")
		idx = (idx + 1) % limit
		if count < limit {
			count++
		}
		offset += int64(len(line))
	}

	start := (idx - count + limit) % limit
	lines := make([]string, count)
	for i := range lines {
		lines[i] = ring[(start+i)%limit]
	}
	return lines, offset, nil
}
