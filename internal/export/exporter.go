package export

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/namaewanam/notes/internal/content"
	"github.com/namaewanam/notes/internal/logging"
	"github.com/namaewanam/notes/pkg/interfaces"
)

// DefaultOutputPath is where the snapshot lands unless configured otherwise.
const DefaultOutputPath = "public/posts.json"

// Options selects the export outputs.
type Options struct {
	OutputPath string
	Manifest   bool
	Sitemap    bool
	BaseURL    string
}

// Result summarises one export run.
type Result struct {
	BuildID      string
	OutputPath   string
	ManifestPath string
	SitemapPath  string
	Posts        int
	Checksum     string
	Duration     time.Duration
}

// Option configures an Exporter.
type Option func(*Exporter)

func WithLogger(logger interfaces.Logger) Option {
	return func(e *Exporter) {
		e.logger = logging.Ensure(logger)
	}
}

func WithWriter(writer ArtifactWriter) Option {
	return func(e *Exporter) {
		if writer != nil {
			e.writer = writer
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(e *Exporter) {
		if clock != nil {
			e.now = clock
		}
	}
}

func WithIDGenerator(generator func() uuid.UUID) Option {
	return func(e *Exporter) {
		if generator != nil {
			e.id = generator
		}
	}
}

// Exporter regenerates the snapshot from the query surface.
type Exporter struct {
	posts  content.Service
	writer ArtifactWriter
	logger interfaces.Logger
	now    func() time.Time
	id     func() uuid.UUID
}

func NewExporter(posts content.Service, opts ...Option) *Exporter {
	e := &Exporter{
		posts:  posts,
		writer: FileWriter{},
		logger: logging.NoOp(),
		now:    time.Now,
		id:     uuid.New,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export lists every post, validates the encoded snapshot against the
// embedded schema and writes it, followed by the manifest and sitemap when
// enabled. Nothing is written if the snapshot fails validation.
func (e *Exporter) Export(ctx context.Context, opts Options) (Result, error) {
	started := e.now()
	output := strings.TrimSpace(opts.OutputPath)
	if output == "" {
		output = DefaultOutputPath
	}
	buildID := e.id().String()
	logger := logging.WithFields(e.logger, map[string]any{"build_id": buildID, "output": output})

	posts, err := e.posts.ListAllPosts(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("export: list posts: %w", err)
	}

	entries := Build(posts)
	document, err := Encode(entries)
	if err != nil {
		return Result{}, err
	}
	if err := Validate(document); err != nil {
		logger.Error("export.snapshot.invalid", "error", err)
		return Result{}, err
	}

	if err := e.writer.WriteFile(ctx, WriteRequest{Path: output, Content: document, Kind: KindSnapshot}); err != nil {
		return Result{}, err
	}

	sum := sha256.Sum256(document)
	result := Result{
		BuildID:    buildID,
		OutputPath: output,
		Posts:      len(entries),
		Checksum:   hex.EncodeToString(sum[:]),
	}
	dir := filepath.Dir(output)

	if opts.Sitemap {
		result.SitemapPath = filepath.Join(dir, SitemapFileName)
		sitemap := []byte(buildSitemap(opts.BaseURL, posts))
		if err := e.writer.WriteFile(ctx, WriteRequest{Path: result.SitemapPath, Content: sitemap, Kind: KindSitemap}); err != nil {
			return Result{}, err
		}
	}

	if opts.Manifest {
		result.ManifestPath = filepath.Join(dir, ManifestFileName)
		manifest, err := newManifest(buildID, started, output, entries, result.Checksum).marshal()
		if err != nil {
			return Result{}, err
		}
		if err := e.writer.WriteFile(ctx, WriteRequest{Path: result.ManifestPath, Content: manifest, Kind: KindManifest}); err != nil {
			return Result{}, err
		}
	}

	result.Duration = e.now().Sub(started)
	logger.Info("export.snapshot.written", "posts", result.Posts, "checksum", result.Checksum, "duration", result.Duration)
	return result, nil
}
