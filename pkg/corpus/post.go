// Package corpus defines the post records the analysis runs over and the
// sources that produce them.
package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrPathRequired is returned when a file source has no path
	ErrPathRequired = errors.New("corpus path is required")
)

// Post is a single forum post. Body is raw text and may contain HTML markup.
type Post struct {
	ID           int64    `json:"question_id"`
	Title        string   `json:"title,omitempty"`
	Body         string   `json:"body"`
	Tags         []string `json:"tags,omitempty"`
	Link         string   `json:"link,omitempty"`
	Score        int      `json:"score"`
	CreationDate int64    `json:"creation_date,omitempty"`
}

// Source produces the posts of a corpus
type Source interface {
	Posts(ctx context.Context) ([]Post, error)
}

// FileSource reads a corpus previously written with Save
type FileSource struct {
	path string
}

// NewFileSource creates a source backed by a JSON file
func NewFileSource(path string) (*FileSource, error) {
	if path == "" {
		return nil, ErrPathRequired
	}

	return &FileSource{path: path}, nil
}

// Posts loads every post from the file
func (f *FileSource) Posts(_ context.Context) ([]Post, error) {
	return Load(f.path)
}

// Load reads a JSON array of posts from path
func Load(path string) ([]Post, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided corpus path
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}

	var posts []Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("failed to parse corpus %s: %w", path, err)
	}

	return posts, nil
}

// Save writes posts to path as a JSON array
func Save(path string, posts []Post) error {
	if path == "" {
		return ErrPathRequired
	}

	if posts == nil {
		posts = []Post{}
	}

	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal corpus: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write corpus: %w", err)
	}

	return nil
}
