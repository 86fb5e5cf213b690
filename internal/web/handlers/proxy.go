package handlers

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
)

// NewUploadsProxy forwards image requests to the backend, so the page can
// show reference photos and recognition results from the same origin.
func NewUploadsProxy(backend *url.URL) http.Handler {
	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(backend)
			pr.Out.Host = backend.Host
			pr.Out.Header.Del("Cookie")
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Warn("image proxy failed", "path", sanitizeForLog(r.URL.Path), "error", err)
			w.WriteHeader(http.StatusBadGateway)
		},
	}
	return proxy
}
