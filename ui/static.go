package ui

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// setupStatic serves the built dashboard with an index.html fallback for
// client-side routes. Nothing is mounted when the directory is missing.
func (s *Server) setupStatic() {
	dir := s.opts.StaticDir
	if dir == "" {
		return
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		s.logger.Info("static directory not found, dashboard not served", zap.String("dir", dir))
		return
	}

	index := filepath.Join(dir, "index.html")
	files := http.Dir(dir)

	s.router.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		if f, err := files.Open(c.Request.URL.Path); err == nil {
			stat, statErr := f.Stat()
			f.Close()
			if statErr == nil && !stat.IsDir() {
				c.FileFromFS(c.Request.URL.Path, files)
				return
			}
		}
		c.File(index)
	})
}
