package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/namaewanam/notes/internal/content"
	"github.com/namaewanam/notes/internal/views"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	if content.IsAmbiguousCategory(err) {
		return http.StatusConflict, errorResponse{
			Error:   "ambiguous_category",
			Message: err.Error(),
		}
	}

	if errors.Is(err, views.ErrKeyRequired) {
		return http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		}
	}

	if errors.Is(err, content.ErrContentRootUnreadable) {
		return http.StatusServiceUnavailable, errorResponse{
			Error:   "content_unavailable",
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	}
}

func notFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: message})
}

// summaries drops bodies from listing payloads.
func summaries(posts []content.Post) []content.Post {
	out := make([]content.Post, len(posts))
	for i, post := range posts {
		post.Content = ""
		out[i] = post
	}
	return out
}

func summary(post *content.Post) *content.Post {
	if post == nil {
		return nil
	}
	clone := *post
	clone.Content = ""
	return &clone
}
