package middleware

import (
	"net/http"
	"os"
	"path/filepath"
)

const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 200"><rect width="200" height="200" fill="#0b2239"/><path d="M100 45l12 40h42l-34 25 13 40-33-25-33 25 13-40-34-25h42z" fill="#9fb8cc"/><text x="100" y="178" text-anchor="middle" font-family="Arial" font-size="14" fill="#9fb8cc">VESSELIQ</text></svg>`

// StaticFileServer serves package and service icons, falling back to a
// placeholder for unknown files.
func StaticFileServer(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean(r.URL.Path))

		if _, err := os.Stat(path); err == nil {
			w.Header().Set("Cache-Control", "public, max-age=2592000")
			http.ServeFile(w, r, path)
			return
		}

		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.Write([]byte(placeholderSVG))
	})
}
