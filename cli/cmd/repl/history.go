package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"strings"
	"sync"
)

const baseHistory = "history.utf8"

// Entries are stored one per line, prefixed by their kind.
const (
	codePrefix    = "E:"
	commandPrefix = "C:"
)

// HistoryEntry is one submitted line.
type HistoryEntry struct {
	Line    string
	Command bool // line is a ":" command
}

func (e HistoryEntry) encode() string {
	if e.Command {
		return commandPrefix + e.Line + "\n"
	}

	return codePrefix + e.Line + "\n"
}

// History is the persistent list of submitted lines, oldest first.
type History struct {
	path    string
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory returns a History backed by the file at path. An empty path
// keeps history in memory only.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with those stored in the history file. A missing
// file is an empty history.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = nil

	if h.path == "" {
		return nil
	}

	file, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		var e HistoryEntry

		if s, ok := strings.CutPrefix(line, commandPrefix); ok {
			e = HistoryEntry{Line: s, Command: true}
		} else {
			e = HistoryEntry{Line: strings.TrimPrefix(line, codePrefix)}
		}

		if e.Line != "" {
			h.entries = append(h.entries, e)
		}
	}

	return scanner.Err()
}

// Add appends line to the history. An earlier identical entry is moved to
// the end rather than repeated.
func (h *History) Add(line string, command bool) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	e := HistoryEntry{Line: line, Command: command}

	if n := len(h.entries); n > 0 && h.entries[n-1] == e {
		return nil
	}

	for i, old := range h.entries {
		if old == e {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			h.entries = append(h.entries, e)

			return h.rewrite()
		}
	}

	h.entries = append(h.entries, e)

	if h.path == "" {
		return nil
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(e.encode())

	return err
}

// Entry returns the i-th entry, oldest first.
func (h *History) Entry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return append([]HistoryEntry(nil), h.entries...)
}

// rewrite stores every entry. The caller holds h.mu.
func (h *History) rewrite() error {
	if h.path == "" {
		return nil
	}

	var b strings.Builder

	for _, e := range h.entries {
		b.WriteString(e.encode())
	}

	return os.WriteFile(h.path, []byte(b.String()), 0o600)
}
