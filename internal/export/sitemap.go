package export

import (
	"encoding/xml"
	"sort"
	"strings"
	"time"

	"github.com/namaewanam/notes/internal/content"
)

// SitemapFileName is written next to the snapshot when sitemaps are enabled.
const SitemapFileName = "sitemap.xml"

type sitemapEntry struct {
	Location string
	LastMod  time.Time
}

func buildSitemap(baseURL string, posts []content.Post) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = "http://localhost"
	}

	entries := make([]sitemapEntry, 0, len(posts))
	seen := map[string]struct{}{}
	for _, post := range posts {
		location := base + content.Route(post)
		if _, ok := seen[location]; ok {
			continue
		}
		seen[location] = struct{}{}
		entries = append(entries, sitemapEntry{Location: location, LastMod: post.PublishedAt})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Location < entries[j].Location
	})

	var builder strings.Builder
	builder.WriteString(xml.Header)
	builder.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, entry := range entries {
		builder.WriteString("  <url>\n    <loc>")
		_ = xml.EscapeText(&builder, []byte(entry.Location))
		builder.WriteString("</loc>\n")
		if !entry.LastMod.IsZero() {
			builder.WriteString("    <lastmod>" + entry.LastMod.UTC().Format(time.RFC3339) + "</lastmod>\n")
		}
		builder.WriteString("  </url>\n")
	}
	builder.WriteString("</urlset>\n")
	return builder.String()
}
