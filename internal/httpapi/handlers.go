package httpapi

import (
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/namaewanam/notes/internal/content"
	"github.com/namaewanam/notes/internal/search"
)

const viewsSuffix = "/views"

type postResponse struct {
	Post     content.Post     `json:"post"`
	HTML     string           `json:"html,omitempty"`
	Adjacent content.Adjacent `json:"adjacent"`
	ViewKey  string           `json:"viewKey"`
	Views    *int64           `json:"views,omitempty"`
}

type viewsResponse struct {
	ViewKey string `json:"viewKey"`
	Views   int64  `json:"views"`
}

type searchResponse struct {
	Query   string          `json:"query"`
	Results []search.Result `json:"results"`
}

func (api *API) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (api *API) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := api.posts.ListCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (api *API) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := api.posts.ListAllPosts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries(posts))
}

func (api *API) listCategoryPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := api.posts.ListPostsByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries(posts))
}

func (api *API) getPost(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	fullPath := strings.Trim(chi.URLParam(r, "*"), "/")

	post, ok, err := api.posts.GetPostBySlug(r.Context(), category, fullPath)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		notFound(w, "post not found")
		return
	}

	adjacent, err := api.posts.GetAdjacentPosts(r.Context(), category, post)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := postResponse{
		Post: post,
		Adjacent: content.Adjacent{
			Previous: summary(adjacent.Previous),
			Next:     summary(adjacent.Next),
		},
		ViewKey: content.ViewKey(post),
	}

	if api.renderer != nil {
		html, err := api.renderer.Parse([]byte(post.Content))
		if err != nil {
			api.logger.Warn("http.post.render_failed", "category", post.Category, "path", post.FullPath, "error", err)
		} else {
			resp.HTML = string(html)
		}
	}

	if api.views != nil {
		count, err := api.views.Get(r.Context(), resp.ViewKey)
		if err != nil {
			api.logger.Warn("http.post.views_unavailable", "view_key", resp.ViewKey, "error", err)
		} else {
			resp.Views = &count
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// incrementViews handles POST /api/posts/{category}/{fullPath}/views. chi
// wildcards must end a pattern, so the suffix is matched here.
func (api *API) incrementViews(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(chi.URLParam(r, "*"), "/")
	if !strings.HasSuffix("/"+rest, viewsSuffix) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method_not_allowed"})
		return
	}
	fullPath := strings.Trim(strings.TrimSuffix("/"+rest, viewsSuffix), "/")
	if fullPath == "" {
		notFound(w, "post not found")
		return
	}

	post, ok, err := api.posts.GetPostBySlug(r.Context(), chi.URLParam(r, "category"), fullPath)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		notFound(w, "post not found")
		return
	}

	key := content.ViewKey(post)
	count, err := api.views.Increment(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewsResponse{ViewKey: key, Views: count})
}

func (api *API) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	results := api.searcher.Search(r.Context(), query)
	if results == nil {
		results = []search.Result{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Results: results})
}

func (api *API) snapshot(w http.ResponseWriter, r *http.Request) {
	info, err := os.Stat(api.snapshotPath)
	if err != nil || info.IsDir() {
		notFound(w, "snapshot has not been exported")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	http.ServeFile(w, r, api.snapshotPath)
}
