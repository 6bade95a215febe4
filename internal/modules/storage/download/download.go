package download

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dredninja/Subtitle-Translator/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// Handler serves produced artifact files read-only, keyed by generated
// filename only.
type Handler struct {
	dir string
}

func NewHandler(dir string) *Handler {
	return &Handler{dir: dir}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/downloads/:name", h.get)
}

func (h *Handler) get(c *gin.Context) {
	name := safeName(c.Param("name"))
	if name == "" {
		response.NotFound(c)
		return
	}

	path := filepath.Join(h.dir, name)
	if _, err := os.Stat(path); err != nil {
		response.NotFound(c)
		return
	}
	c.File(path)
}

// PublicPath maps an absolute artifact path to its public download reference.
func PublicPath(artifactPath string) string {
	return "/downloads/" + filepath.Base(artifactPath)
}

// safeName returns the base name of raw only when it is a safe path segment.
func safeName(raw string) string {
	name := filepath.Base(strings.TrimSpace(raw))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return ""
	}
	if !isSafeSegment(name) {
		return ""
	}
	return name
}

// isSafeSegment returns true when s contains only alphanumerics, hyphens,
// underscores, or dots.
func isSafeSegment(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			continue
		}
		return false
	}
	return true
}
