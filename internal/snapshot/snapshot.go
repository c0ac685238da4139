// Package snapshot writes raw page captures for offline troubleshooting.
package snapshot

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// Writer stores one HTML file per visited page under a debug directory.
// A disabled Writer accepts every call and writes nothing.
type Writer struct {
	mu      sync.Mutex
	dir     string
	enabled bool
	created bool
}

// NewWriter returns a Writer rooted at dir. The directory is created lazily on
// the first write.
func NewWriter(dir string, enabled bool) *Writer {
	return &Writer{dir: dir, enabled: enabled}
}

// Dir returns the snapshot directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Write stores markup as debug_<id>.html and returns the file path.
func (w *Writer) Write(id, markup string) (string, error) {
	return w.WriteNamed(fmt.Sprintf("debug_%s.html", safeName(id)), markup)
}

// WriteNamed stores markup under the given file name.
func (w *Writer) WriteNamed(name, markup string) (string, error) {
	if w == nil || !w.enabled {
		return "", nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.created {
		if err := os.MkdirAll(w.dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		w.created = true
	}

	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, Normalize(markup), 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot %s: %w", name, err)
	}
	return path, nil
}

// Normalize re-renders markup through the HTML5 parser so every snapshot has
// balanced tags. Markup the parser rejects is kept verbatim.
func Normalize(markup string) []byte {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return []byte(markup)
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return []byte(markup)
	}
	return buf.Bytes()
}

func safeName(id string) string {
	if id == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, id)
}
