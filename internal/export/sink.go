// Package export persists a JSON mirror of each submission to a
// server-local directory. The primary record lives in the database; export
// failures are reported but never roll back a submission.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/rube11/Mo-Data-builder-project/internal/model"
)

var whitespace = regexp.MustCompile(`\s+`)

// Sink writes export files under a single directory, created on first use.
type Sink struct {
	dir string
}

// NewSink creates a sink rooted at dir.
func NewSink(dir string) *Sink {
	return &Sink{dir: dir}
}

// Result describes a stored export file.
type Result struct {
	FileName string `json:"fileName"`
	Path     string `json:"path"`
}

// Save writes the payload as pretty-printed JSON. The filename is the
// title with whitespace collapsed to underscores plus a millisecond
// timestamp, which keeps names unique under realistic submission rates.
func (s *Sink) Save(payload model.ExportPayload) (*Result, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export payload: %w", err)
	}

	fileName := fmt.Sprintf("%s_%d.json",
		whitespace.ReplaceAllString(payload.Title, "_"),
		time.Now().UnixMilli())

	if err := os.WriteFile(filepath.Join(s.dir, fileName), data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write export file: %w", err)
	}

	return &Result{
		FileName: fileName,
		Path:     filepath.ToSlash(filepath.Join(s.dir, fileName)),
	}, nil
}
