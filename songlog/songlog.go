// Package songlog records which songs have already been loved, so repeated
// runs don't love them again.
//
// The log is a plain UTF-8 text file with one song identifier per line. It is
// only ever appended to, and may be edited by hand between runs.
package songlog

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Log is the set of song identifiers loaded from a log file
type Log struct {
	path  string
	songs map[string]struct{}
}

// Load reads the log at path. A missing file is treated as an empty log.
func Load(path string) (*Log, error) {
	l := &Log{
		path:  path,
		songs: make(map[string]struct{}),
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return l, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to open loved songs log: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		l.songs[line] = struct{}{}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read loved songs log: %w", err)
	}

	return l, nil
}

// Path returns the location of the log file
func (l *Log) Path() string {
	return l.path
}

// Contains reports whether the identifier has already been logged
func (l *Log) Contains(id string) bool {
	_, ok := l.songs[id]
	return ok
}

// Len returns the number of distinct identifiers in the log
func (l *Log) Len() int {
	return len(l.songs)
}

// Append writes the identifier to the end of the log file. The file is opened
// and closed on every call so each entry is on disk before the next one starts.
func (l *Log) Append(id string) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open loved songs log: %w", err)
	}

	if _, err := f.WriteString(id + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write to loved songs log: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close loved songs log: %w", err)
	}

	l.songs[id] = struct{}{}
	return nil
}
