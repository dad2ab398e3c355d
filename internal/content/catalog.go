package content

import (
	"context"
	"slices"

	"github.com/namaewanam/notes/internal/logging"
	"github.com/namaewanam/notes/pkg/interfaces"
)

// Service answers listing, lookup and navigation queries over a Source.
type Service interface {
	ListAllPosts(ctx context.Context) ([]Post, error)
	// ListPostsByCategory returns an empty slice when no directory matches.
	ListPostsByCategory(ctx context.Context, category string) ([]Post, error)
	// GetPostBySlug reports false when the category or post does not exist.
	GetPostBySlug(ctx context.Context, category, fullPath string) (Post, bool, error)
	GetAdjacentPosts(ctx context.Context, category string, post Post) (Adjacent, error)
	ListCategories(ctx context.Context) ([]Category, error)
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithServiceLogger sets the logger used for query diagnostics.
func WithServiceLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		s.logger = logging.Ensure(logger)
	}
}

type service struct {
	source Source
	logger interfaces.Logger
}

// NewService constructs the query surface over source.
func NewService(source Source, opts ...ServiceOption) Service {
	s := &service{
		source: source,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) ListAllPosts(ctx context.Context) ([]Post, error) {
	dirs, err := s.uniqueDirs(ctx)
	if err != nil {
		return nil, err
	}

	var all []Post
	for _, dir := range dirs {
		posts, err := s.source.Walk(ctx, dir)
		if err != nil {
			return nil, err
		}
		all = append(all, posts...)
	}
	if all == nil {
		all = []Post{}
	}
	SortPosts(all)
	return all, nil
}

func (s *service) ListPostsByCategory(ctx context.Context, category string) ([]Post, error) {
	dir, ok, err := s.resolve(ctx, category)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []Post{}, nil
	}

	posts, err := s.source.Walk(ctx, dir)
	if err != nil {
		return nil, err
	}
	posts = slices.Clone(posts)
	if posts == nil {
		posts = []Post{}
	}
	SortPosts(posts)
	return posts, nil
}

func (s *service) GetPostBySlug(ctx context.Context, category, fullPath string) (Post, bool, error) {
	dir, ok, err := s.resolve(ctx, category)
	if err != nil || !ok {
		return Post{}, false, err
	}

	posts, err := s.source.Walk(ctx, dir)
	if err != nil {
		return Post{}, false, err
	}

	key := fold(fullPath)
	for _, post := range posts {
		if post.FullPath == key {
			return post, true, nil
		}
	}
	return Post{}, false, nil
}

func (s *service) GetAdjacentPosts(ctx context.Context, category string, current Post) (Adjacent, error) {
	posts, err := s.ListPostsByCategory(ctx, category)
	if err != nil {
		return Adjacent{}, err
	}

	scope := posts
	if current.Subcategory != "" {
		scope = make([]Post, 0, len(posts))
		for _, post := range posts {
			if post.Subcategory == current.Subcategory {
				scope = append(scope, post)
			}
		}
	}

	idx := slices.IndexFunc(scope, func(post Post) bool {
		return post.FullPath == current.FullPath
	})
	if idx < 0 {
		s.logger.Debug("content.adjacent.not_found", "category", category, "full_path", current.FullPath)
		return Adjacent{}, nil
	}

	var adj Adjacent
	if idx > 0 {
		prev := scope[idx-1]
		adj.Previous = &prev
	}
	if idx < len(scope)-1 {
		next := scope[idx+1]
		adj.Next = &next
	}
	return adj, nil
}

// ListCategories returns one record per category directory in listing
// order. Count is the number of posts the category actually yields, so it
// always matches ListPostsByCategory.
func (s *service) ListCategories(ctx context.Context) ([]Category, error) {
	dirs, err := s.uniqueDirs(ctx)
	if err != nil {
		return nil, err
	}

	categories := make([]Category, 0, len(dirs))
	for _, dir := range dirs {
		posts, err := s.source.Walk(ctx, dir)
		if err != nil {
			return nil, err
		}
		categories = append(categories, Category{
			Slug:  dir.Slug,
			Name:  dir.Name,
			Count: len(posts),
		})
	}
	return categories, nil
}

// resolve finds the directory whose name folds to category.
func (s *service) resolve(ctx context.Context, category string) (Dir, bool, error) {
	dirs, err := s.source.Dirs(ctx)
	if err != nil {
		return Dir{}, false, err
	}

	key := fold(category)
	var matches []Dir
	for _, dir := range dirs {
		if dir.Slug == key {
			matches = append(matches, dir)
		}
	}

	switch len(matches) {
	case 0:
		return Dir{}, false, nil
	case 1:
		return matches[0], true, nil
	default:
		return Dir{}, false, s.ambiguous(key, matches)
	}
}

// uniqueDirs returns every category directory, failing when two of them
// fold to the same slug.
func (s *service) uniqueDirs(ctx context.Context) ([]Dir, error) {
	dirs, err := s.source.Dirs(ctx)
	if err != nil {
		return nil, err
	}

	bySlug := make(map[string][]Dir, len(dirs))
	for _, dir := range dirs {
		bySlug[dir.Slug] = append(bySlug[dir.Slug], dir)
	}
	for _, dir := range dirs {
		if group := bySlug[dir.Slug]; len(group) > 1 {
			return nil, s.ambiguous(dir.Slug, group)
		}
	}
	return dirs, nil
}

func (s *service) ambiguous(slug string, dirs []Dir) error {
	names := make([]string, len(dirs))
	for i, dir := range dirs {
		names[i] = dir.Name
	}
	s.logger.Error("content.category.ambiguous", "category", slug, "directories", names)
	return ambiguousCategoryError(slug, names)
}
