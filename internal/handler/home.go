package handler

import (
	"io/fs"
	"log/slog"
	"net/http"
)

const robotsTxt = "User-agent: *\nDisallow: /\n"

// HomeHandler serves the embedded frontend bundle.
type HomeHandler struct {
	web    fs.FS
	static http.Handler
}

// NewHomeHandler takes the bundle root, which holds index.html and static/.
func NewHomeHandler(web fs.FS) *HomeHandler {
	return &HomeHandler{
		web:    web,
		static: http.FileServer(http.FS(web)),
	}
}

func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	content, err := fs.ReadFile(h.web, "index.html")
	if err != nil {
		slog.Error("frontend bundle missing index.html", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(content)
}

// Static serves /static/... straight from the bundle.
func (h *HomeHandler) Static(w http.ResponseWriter, r *http.Request) {
	h.static.ServeHTTP(w, r)
}

// Robots keeps the private tracker out of search indexes.
func (h *HomeHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(robotsTxt))
}

func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeDetail(w, http.StatusNotFound, "Not found")
}
