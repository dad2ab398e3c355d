package content

import (
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrContentRootUnreadable reports that the top-level content directory
	// could not be listed.
	ErrContentRootUnreadable = errors.New("content: content root unreadable")
	// ErrAmbiguousCategory reports two top-level directories whose names
	// differ only in case.
	ErrAmbiguousCategory = errors.New("content: ambiguous category")
)

const ambiguousCategoryCode = "CONTENT_AMBIGUOUS_CATEGORY"

func ambiguousCategoryError(slug string, names []string) error {
	msg := fmt.Sprintf("ambiguous category %q matches directories %s", slug, strings.Join(names, ", "))
	return goerrors.Wrap(ErrAmbiguousCategory, goerrors.CategoryValidation, msg).
		WithTextCode(ambiguousCategoryCode)
}

// IsAmbiguousCategory reports whether err was produced for a case-folded
// category name clash.
func IsAmbiguousCategory(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAmbiguousCategory) {
		return true
	}
	return goerrors.IsCategory(err, goerrors.CategoryValidation) &&
		strings.Contains(err.Error(), "ambiguous category")
}
