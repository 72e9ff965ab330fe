package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"squad-backend/pkg/common"
)

// StaticHandler serves the single-page front-end from a directory. Requests
// for extensionless module paths resolve to .tsx or .ts sources, which are
// served as plain text so the browser-side transpiler can fetch them.
type StaticHandler struct {
	root   string
	apiKey string
}

// NewStaticHandler creates a static file handler rooted at dir.
func NewStaticHandler(dir, apiKey string) *StaticHandler {
	return &StaticHandler{root: dir, apiKey: apiKey}
}

// Index handles GET /
func (h *StaticHandler) Index(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(h.root, "index.html"))
}

// EnvJS handles GET /env.js, injecting the API key into window.process.env.
// The key is JSON-encoded so it can never break out of the string literal.
func (h *StaticHandler) EnvJS(w http.ResponseWriter, r *http.Request) {
	safeKey, err := json.Marshal(h.apiKey)
	if err != nil {
		common.RespondError(w, http.StatusInternalServerError, "INTERNAL", "failed to encode key")
		return
	}

	w.Header().Set("Content-Type", "application/javascript")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(
		"if (!window.process) window.process = {};\n" +
			"if (!window.process.env) window.process.env = {};\n" +
			"window.process.env.API_KEY = " + string(safeKey) + ";\n",
	))
}

// Serve handles GET /* for everything that is not an API route.
func (h *StaticHandler) Serve(w http.ResponseWriter, r *http.Request) {
	reqPath := strings.TrimPrefix(r.URL.Path, "/")

	// API routes that reached the catch-all do not exist.
	if strings.HasPrefix(reqPath, "api/") {
		common.RespondError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
		return
	}

	clean := filepath.Clean(reqPath)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		common.RespondError(w, http.StatusForbidden, "FORBIDDEN", "access denied")
		return
	}

	full := filepath.Join(h.root, clean)
	if _, err := os.Stat(full); err != nil {
		// Extensionless imports resolve to TypeScript sources.
		if resolved, ok := h.resolveTS(full); ok {
			full = resolved
		} else {
			http.NotFound(w, r)
			return
		}
	}

	if strings.HasSuffix(full, ".ts") || strings.HasSuffix(full, ".tsx") {
		w.Header().Set("Content-Type", "text/plain")
	}
	http.ServeFile(w, r, full)
}

func (h *StaticHandler) resolveTS(path string) (string, bool) {
	for _, ext := range []string{".tsx", ".ts"} {
		if _, err := os.Stat(path + ext); err == nil {
			return path + ext, true
		}
	}
	return "", false
}
