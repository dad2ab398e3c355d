package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	goslug "github.com/goliatone/go-slug"

	"github.com/namaewanam/notes/internal/logging"
	"github.com/namaewanam/notes/internal/markdown"
	"github.com/namaewanam/notes/pkg/interfaces"
)

// DefaultExtension is the file suffix treated as Markdown.
const DefaultExtension = ".md"

// Dir is a top-level category directory as found on disk.
type Dir struct {
	// Name keeps the on-disk casing.
	Name string
	Slug string
}

// Source produces the raw material of the query surface: the category
// directories under the content root and the posts found in one of them, in
// walk order.
type Source interface {
	Dirs(ctx context.Context) ([]Dir, error)
	Walk(ctx context.Context, dir Dir) ([]Post, error)
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets the logger used to report skipped files.
func WithLogger(logger interfaces.Logger) IndexerOption {
	return func(ix *Indexer) {
		ix.logger = logging.Ensure(logger)
	}
}

// WithExtension overrides the Markdown file suffix. A missing leading dot
// is added, and the match is case-insensitive.
func WithExtension(ext string) IndexerOption {
	return func(ix *Indexer) {
		if ext = normalizeExtension(ext); ext != "" {
			ix.ext = ext
		}
	}
}

// Indexer walks a content root laid out as <Category>/**/<file>.md. Every
// call reads the filesystem afresh.
type Indexer struct {
	fsys   fs.FS
	ext    string
	logger interfaces.Logger
}

var _ Source = (*Indexer)(nil)

// NewIndexer returns an indexer reading from fsys, whose root is the
// directory holding the category folders.
func NewIndexer(fsys fs.FS, opts ...IndexerOption) *Indexer {
	ix := &Indexer{
		fsys:   fsys,
		ext:    DefaultExtension,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Dirs lists the category directories in directory-listing order. Hidden
// entries and plain files at the root are ignored.
func (ix *Indexer) Dirs(ctx context.Context) ([]Dir, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := fs.ReadDir(ix.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentRootUnreadable, err)
	}

	dirs := make([]Dir, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || hidden(entry.Name()) {
			continue
		}
		dirs = append(dirs, Dir{Name: entry.Name(), Slug: strings.ToLower(entry.Name())})
	}
	return dirs, nil
}

// Walk visits dir depth-first and returns its posts in encounter order.
// Unreadable directories and files that fail to parse are logged and
// skipped. When two files fold to the same full path the first one wins.
func (ix *Indexer) Walk(ctx context.Context, dir Dir) ([]Post, error) {
	logger := logging.WithContentContext(ix.logger, dir.Slug, "", "walk")
	var posts []Post
	seen := map[string]string{}

	err := fs.WalkDir(ix.fsys, dir.Name, func(p string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			logger.Warn("content.walk.unreadable", "path", p, "error", walkErr)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if p == dir.Name {
			return nil
		}
		if hidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !hasExtension(d.Name(), ix.ext) {
			return nil
		}

		post, err := ix.load(dir, p)
		if err != nil {
			logger.Warn("content.walk.skip", "path", p, "error", err)
			return nil
		}
		if first, dup := seen[post.FullPath]; dup {
			logger.Warn("content.walk.duplicate", "path", p, "full_path", post.FullPath, "kept", first)
			return nil
		}
		seen[post.FullPath] = p
		if !goslug.IsValid(post.Slug) {
			logger.Warn("content.walk.slug_not_url_safe", "path", p, "slug", post.Slug)
		}
		posts = append(posts, post)
		return nil
	})
	if err != nil && !errors.Is(err, fs.SkipDir) {
		return nil, err
	}
	return posts, nil
}

func (ix *Indexer) load(dir Dir, p string) (Post, error) {
	doc, err := markdown.ReadDocument(ix.fsys, p)
	if err != nil {
		return Post{}, err
	}

	rel := strings.TrimPrefix(p, dir.Name+"/")
	subcategory, slug, fullPath := derivePath(rel, ix.ext)
	fm := doc.FrontMatter

	title := fm.Title
	if title == "" {
		title = fallbackTitle(slug)
	}

	return Post{
		Category:     dir.Slug,
		CategoryName: dir.Name,
		Subcategory:  subcategory,
		Slug:         slug,
		FullPath:     fullPath,
		Title:        title,
		Date:         fm.Date,
		Description:  fm.Description,
		Order:        fm.Order,
		Content:      string(doc.Body),
		PublishedAt:  fm.PublishedAt,
		SourcePath:   path.Clean(p),
	}, nil
}
