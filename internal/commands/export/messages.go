package exportcmd

import (
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/namaewanam/notes/internal/export"
)

const exportSnapshotMessageType = "notes.export.snapshot"

// ResultCallback receives the export result. It is invoked synchronously from
// the handler when the snapshot was written.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of an export command.
type ResultEnvelope struct {
	Result   export.Result
	Metadata map[string]any
}

// ExportSnapshotCommand regenerates the posts snapshot and its companions.
type ExportSnapshotCommand struct {
	// OutputPath is where posts.json is written.
	OutputPath string `json:"output_path"`
	// Manifest writes .export-manifest.json next to the snapshot.
	Manifest bool `json:"manifest,omitempty"`
	// Sitemap writes sitemap.xml next to the snapshot; requires BaseURL.
	Sitemap bool   `json:"sitemap,omitempty"`
	BaseURL string `json:"base_url,omitempty"`

	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (ExportSnapshotCommand) Type() string { return exportSnapshotMessageType }

// Validate requires an output path, and a base URL when a sitemap is requested.
func (cmd ExportSnapshotCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.OutputPath, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("notes.export.snapshot.output_required", "output path is required")
			}
			return nil
		})),
		validation.Field(&cmd.BaseURL,
			validation.When(cmd.Sitemap, validation.Required.Error("base url is required when sitemap is enabled")),
			validation.By(absoluteURL),
		),
	)
}

func (cmd ExportSnapshotCommand) options() export.Options {
	return export.Options{
		OutputPath: strings.TrimSpace(cmd.OutputPath),
		Manifest:   cmd.Manifest,
		Sitemap:    cmd.Sitemap,
		BaseURL:    strings.TrimSpace(cmd.BaseURL),
	}
}

func absoluteURL(value any) error {
	raw := strings.TrimSpace(value.(string))
	if raw == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return validation.NewError("notes.export.snapshot.base_url_invalid", "base url must be absolute")
	}
	return nil
}
