package content

import (
	"path"
	"strings"
)

// fold normalises a user-supplied category slug or full path for lookup.
func fold(value string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(value)), "/")
}

// derivePath splits rel, a slash path relative to the category root, into
// its lowercase subcategory, slug and full path. ext is stripped from the
// final segment.
func derivePath(rel, ext string) (subcategory, slug, fullPath string) {
	rel = strings.ToLower(rel)
	dir, file := path.Split(rel)
	slug = file[:len(file)-len(ext)]
	subcategory = strings.Trim(dir, "/")
	if subcategory == "" {
		return "", slug, slug
	}
	return subcategory, slug, subcategory + "/" + slug
}

func fallbackTitle(slug string) string {
	return strings.ReplaceAll(slug, "-", " ")
}

func normalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func hasExtension(name, ext string) bool {
	return len(name) > len(ext) && strings.EqualFold(name[len(name)-len(ext):], ext)
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
