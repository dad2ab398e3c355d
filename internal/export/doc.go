// Package export writes the flattened post snapshot consumed by search,
// together with its build manifest and an optional sitemap.
package export
