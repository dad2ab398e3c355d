package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrInvalidFrontMatter marks a document whose metadata block cannot be used.
var ErrInvalidFrontMatter = errors.New("markdown: invalid front matter")

// dateLayouts lists the accepted spellings of the date key, most specific first.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FrontMatter holds the recognised metadata keys of an article.
type FrontMatter struct {
	Title       string
	Description string
	// Date is the value as authored, kept for export. PublishedAt is its
	// parsed form and is zero when Date is empty.
	Date        string
	PublishedAt time.Time
	Order       *float64
}

// HasDate reports whether the document carries a usable date.
func (fm FrontMatter) HasDate() bool { return fm.Date != "" }

// Document is a parsed article source.
type Document struct {
	Path        string
	FrontMatter FrontMatter
	Body        []byte
}

// ReadDocument loads path from fsys and splits it into metadata and body.
func ReadDocument(fsys fs.FS, path string) (Document, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Document{}, fmt.Errorf("markdown read %s: %w", path, err)
	}
	fm, body, err := ParseFrontMatter(data)
	if err != nil {
		return Document{}, fmt.Errorf("markdown %s: %w", path, err)
	}
	return Document{Path: path, FrontMatter: fm, Body: body}, nil
}

// ParseFrontMatter extracts the metadata block (YAML, TOML or JSON) and
// returns it with the remaining Markdown body. A source without a metadata
// block is valid and yields an empty FrontMatter. Unknown keys are ignored.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var env envelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &env)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("%w: %v", ErrInvalidFrontMatter, err)
	}

	fm, err := env.normalize()
	if err != nil {
		return FrontMatter{}, nil, err
	}
	return fm, body, nil
}

// envelope receives the raw decoded values. Date and order stay untyped
// because the three metadata formats decode them differently.
type envelope struct {
	Title       string `yaml:"title" toml:"title" json:"title"`
	Description string `yaml:"description" toml:"description" json:"description"`
	Date        any    `yaml:"date" toml:"date" json:"date"`
	Order       any    `yaml:"order" toml:"order" json:"order"`
}

func (env envelope) normalize() (FrontMatter, error) {
	fm := FrontMatter{
		Title:       strings.TrimSpace(env.Title),
		Description: strings.TrimSpace(env.Description),
	}

	date, err := dateString(env.Date)
	if err != nil {
		return FrontMatter{}, err
	}
	fm.Date = date

	order, err := orderValue(env.Order)
	if err != nil {
		return FrontMatter{}, err
	}
	fm.Order = order

	err = validation.ValidateStruct(&fm,
		validation.Field(&fm.Date, validation.By(func(value any) error {
			s, _ := value.(string)
			if s == "" {
				return nil
			}
			if _, ok := ParseDate(s); !ok {
				return validation.NewError("notes.frontmatter.date_invalid", "date is not a recognised timestamp")
			}
			return nil
		})),
		validation.Field(&fm.Order, validation.By(func(value any) error {
			if n, ok := value.(*float64); ok && n != nil && (math.IsNaN(*n) || math.IsInf(*n, 0)) {
				return validation.NewError("notes.frontmatter.order_invalid", "order must be a finite number")
			}
			return nil
		})),
	)
	if err != nil {
		return FrontMatter{}, fmt.Errorf("%w: %v", ErrInvalidFrontMatter, err)
	}

	if fm.Date != "" {
		fm.PublishedAt, _ = ParseDate(fm.Date)
	}
	return fm, nil
}

// ParseDate parses an ISO-style date or timestamp. Values without a zone are
// read as UTC.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func dateString(raw any) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(v), nil
	case time.Time:
		if v.Equal(v.Truncate(24*time.Hour)) && v.Location() == time.UTC {
			return v.Format("2006-01-02"), nil
		}
		return v.Format(time.RFC3339), nil
	default:
		return "", fmt.Errorf("%w: date has unsupported type %T", ErrInvalidFrontMatter, raw)
	}
}

func orderValue(raw any) (*float64, error) {
	var n float64
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case uint64:
		n = float64(v)
	case float64:
		n = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: order %q is not a number", ErrInvalidFrontMatter, v)
		}
		n = parsed
	default:
		return nil, fmt.Errorf("%w: order has unsupported type %T", ErrInvalidFrontMatter, raw)
	}
	return &n, nil
}
