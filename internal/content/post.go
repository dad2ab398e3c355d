package content

import (
	"strings"
	"time"
)

// Post is one Markdown article. Category, Subcategory, Slug and FullPath are
// lowercase; CategoryName keeps the on-disk casing for display.
type Post struct {
	Category     string   `json:"category"`
	CategoryName string   `json:"categoryName"`
	Subcategory  string   `json:"subcategory,omitempty"`
	Slug         string   `json:"slug"`
	FullPath     string   `json:"fullPath"`
	Title        string   `json:"title"`
	Date         string   `json:"date,omitempty"`
	Description  string   `json:"description"`
	Order        *float64 `json:"order,omitempty"`
	Content      string   `json:"content,omitempty"`

	// PublishedAt is the parsed Date, zero when the post is undated.
	PublishedAt time.Time `json:"-"`
	// SourcePath is the file path relative to the content root.
	SourcePath string `json:"-"`
}

// HasDate reports whether the post carries a date.
func (p Post) HasDate() bool { return p.Date != "" }

// HasOrder reports whether the post carries an explicit series position.
func (p Post) HasOrder() bool { return p.Order != nil }

// Category summarises one top-level content directory.
type Category struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Adjacent holds the neighbours of a post within its scope. Either side is
// nil when there is no neighbour.
type Adjacent struct {
	Previous *Post `json:"previous"`
	Next     *Post `json:"next"`
}

// ViewKey returns the identifier the view-count store uses for post.
func ViewKey(post Post) string {
	return strings.ToLower(post.CategoryName) + "-" + strings.ReplaceAll(post.FullPath, "/", "-")
}

// Route returns the public URL path of post.
func Route(post Post) string {
	return "/blog/" + post.Category + "/" + post.FullPath
}
