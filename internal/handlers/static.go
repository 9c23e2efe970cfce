package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

const defaultIndexHTML = `<!DOCTYPE html>
<html>
<head><title>InfinityBodyGuard Dashboard</title></head>
<body style="background:#0f0f23;color:white;text-align:center;padding:50px;">
    <h1>InfinityBodyGuard Dashboard</h1>
    <p>Loading dashboard files...</p>
    <script>window.location.href = '/dashboard.html';</script>
</body>
</html>
`

// EnsurePublicDir makes sure the static asset directory exists and
// carries at least a bootstrap index.html.
func EnsurePublicDir(logger *logrus.Logger, dir string) error {
	log := logger.WithField("component", "static")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); os.IsNotExist(err) {
		log.WithField("path", index).Info("Writing default index.html")
		return os.WriteFile(index, []byte(defaultIndexHTML), 0o644)
	}
	return nil
}

// Static serves the dashboard assets. Unknown API paths get a JSON 404;
// any other miss falls back to index.html so deep links keep working.
func (h *DashboardHandler) Static() http.Handler {
	fileServer := http.FileServer(http.Dir(h.cfg.PublicDir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			writeError(w, http.StatusNotFound, "API endpoint "+r.URL.Path+" not found", nil)
			return
		}

		path := filepath.Join(h.cfg.PublicDir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}

		http.ServeFile(w, r, filepath.Join(h.cfg.PublicDir, "index.html"))
	})
}
