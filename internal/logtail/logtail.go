package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Options narrows what Tail returns.
type Options struct {
	// MaxLines caps the result to the last N matching lines; <= 0 means all.
	MaxLines int
	// MinLevel drops records below this level. Lines without a level field
	// are kept.
	MinLevel slog.Level
	// Contains keeps only lines containing this text, case-insensitively.
	Contains string
}

// Read returns the last maxLines lines of the file at path. maxLines <= 0
// returns every line.
func Read(path string, maxLines int) ([]string, error) {
	return Tail(path, Options{MaxLines: maxLines, MinLevel: slog.LevelDebug})
}

// Tail returns the last matching lines of the log at path. A missing file
// yields no lines and no error.
func Tail(path string, opts Options) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	needle := strings.ToLower(strings.TrimSpace(opts.Contains))
	keep := func(line string) bool {
		if lvl, ok := LineLevel(line); ok && lvl < opts.MinLevel {
			return false
		}
		return needle == "" || strings.Contains(strings.ToLower(line), needle)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if opts.MaxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			if line := scanner.Text(); keep(line) {
				lines = append(lines, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	maxLines := opts.MaxLines
	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		line := scanner.Text()
		if !keep(line) {
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// LineLevel extracts the level of a slog text record.
func LineLevel(line string) (slog.Level, bool) {
	for _, field := range strings.Fields(line) {
		value, ok := strings.CutPrefix(field, "level=")
		if !ok {
			continue
		}
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(value)); err != nil {
			return 0, false
		}
		return lvl, true
	}
	return 0, false
}

var (
	debugColor = color.New(color.FgCyan)
	infoColor  = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow, color.Bold)
	errorColor = color.New(color.FgRed, color.Bold)
)

// ColorizeLine highlights the level field of a record for terminal output.
// Lines without a level are returned unchanged.
func ColorizeLine(line string) string {
	lvl, ok := LineLevel(line)
	if !ok {
		return line
	}
	token := "level=" + lvl.String()
	if !strings.Contains(line, token) {
		return line
	}
	var c *color.Color
	switch {
	case lvl >= slog.LevelError:
		c = errorColor
	case lvl >= slog.LevelWarn:
		c = warnColor
	case lvl >= slog.LevelInfo:
		c = infoColor
	default:
		c = debugColor
	}
	return strings.Replace(line, token, c.Sprint(token), 1)
}

// ColorizeLines applies ColorizeLine to each line.
func ColorizeLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = ColorizeLine(line)
	}
	return out
}
