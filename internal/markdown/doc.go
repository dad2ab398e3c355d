// Package markdown parses article sources: front matter extraction and
// validation, plus goldmark rendering of the Markdown body for presentation.
package markdown
