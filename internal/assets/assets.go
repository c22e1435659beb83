// Package assets serves the embedded static pages.
package assets

import (
	"bytes"
	"embed"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// renderPlaceholder is replaced with the created link JSON in okay.html.
const renderPlaceholder = "RENDER_DATA"

// Page returns the raw bytes of an embedded page, e.g. "index.html".
func Page(name string) ([]byte, error) {
	return staticFS.ReadFile("static/" + name)
}

// WritePage writes an embedded page with the given status code.
func WritePage(w http.ResponseWriter, status int, name string) {
	body, err := Page(name)
	if err != nil {
		http.Error(w, "page not available", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// RenderOkay returns okay.html with the placeholder substituted by data,
// which is expected to be a JSON document.
func RenderOkay(data []byte) ([]byte, error) {
	body, err := Page("okay.html")
	if err != nil {
		return nil, err
	}
	return bytes.Replace(body, []byte(renderPlaceholder), data, 1), nil
}
