package commands

import (
	"context"
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Stage identifies where a command failed. It is the suffix of the text code
// attached to the returned error.
type Stage string

const (
	StageInvalid  Stage = "INVALID"
	StageCanceled Stage = "CANCELED"
	StageTimeout  Stage = "TIMEOUT"
	StageFailed   Stage = "FAILED"
)

// defaultCodePrefix is used by handlers configured without an operation.
const defaultCodePrefix = "NOTES_COMMAND"

var codeReplacer = strings.NewReplacer(".", "_", "-", "_", " ", "_", "/", "_")

// ErrorCode returns the text code for a failure of operation at stage, for
// example EXPORT_SNAPSHOT_TIMEOUT for operation "export.snapshot".
func ErrorCode(operation string, stage Stage) string {
	prefix := strings.ToUpper(codeReplacer.Replace(strings.TrimSpace(operation)))
	if prefix == "" {
		prefix = defaultCodePrefix
	}
	return prefix + "_" + string(stage)
}

// TextCode returns the go-errors text code carried by err, or "".
func TextCode(err error) string {
	var tagged *goerrors.Error
	if errors.As(err, &tagged) {
		return tagged.TextCode
	}
	return ""
}

func contextStage(err error) Stage {
	switch {
	case errors.Is(err, context.Canceled):
		return StageCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return StageTimeout
	default:
		return StageFailed
	}
}

// fail tags err with a category and a code derived from the handler's
// operation. Errors already tagged by go-errors pass through untouched.
func (h *Handler[T]) fail(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}

	label := h.operation
	if label == "" {
		label = "command"
	}

	category := goerrors.CategoryCommand
	var message string
	switch stage {
	case StageInvalid:
		category = goerrors.CategoryValidation
		message = label + ": invalid message"
	case StageCanceled:
		message = label + ": cancelled"
	case StageTimeout:
		message = label + ": deadline exceeded"
	default:
		message = label + ": failed"
	}
	return goerrors.Wrap(err, category, message).WithTextCode(ErrorCode(h.operation, stage))
}
