package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/namaewanam/notes/internal/content"
)

// Entry is one post in the snapshot. The body is left out.
type Entry struct {
	Category     string   `json:"category"`
	CategoryName string   `json:"categoryName"`
	Subcategory  string   `json:"subcategory,omitempty"`
	Slug         string   `json:"slug"`
	Title        string   `json:"title"`
	Date         string   `json:"date,omitempty"`
	Description  string   `json:"description"`
	Order        *float64 `json:"order,omitempty"`
	FullPath     string   `json:"fullPath"`
}

// Build flattens posts into snapshot entries, keeping their order.
func Build(posts []content.Post) []Entry {
	entries := make([]Entry, 0, len(posts))
	for _, post := range posts {
		entries = append(entries, Entry{
			Category:     post.Category,
			CategoryName: post.CategoryName,
			Subcategory:  post.Subcategory,
			Slug:         post.Slug,
			Title:        post.Title,
			Date:         post.Date,
			Description:  post.Description,
			Order:        post.Order,
			FullPath:     post.FullPath,
		})
	}
	return entries
}

// Encode renders entries as a two-space indented JSON array.
func Encode(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("export: encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a snapshot document.
func Decode(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("export: decode snapshot: %w", err)
	}
	return entries, nil
}

// ReadFile loads the snapshot at path.
func ReadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("export: read snapshot: %w", err)
	}
	return Decode(data)
}
