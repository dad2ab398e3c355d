// Package httpapi exposes the content query surface as read-only JSON over chi.
//
// Routes:
//   - GET  /health
//   - GET  /api/categories
//   - GET  /api/posts
//   - GET  /api/categories/{category}/posts
//   - GET  /api/posts/{category}/{fullPath...}
//   - POST /api/posts/{category}/{fullPath...}/views
//   - GET  /api/search?q=
//   - GET  /posts.json
//
// Search, view counts and the snapshot file are only mounted when the
// corresponding collaborator is configured.
package httpapi
