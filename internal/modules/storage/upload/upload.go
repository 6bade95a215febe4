package upload

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dirPerm = 0o755

// Store saves multipart uploads under generated names. Client-supplied
// filenames are only consulted for their extension; the stored name is always
// generated, which keeps concurrent writes collision-free and blocks path
// traversal through upload names.
type Store struct {
	dir string
}

// NewStore ensures the upload directory exists.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the absolute upload directory.
func (s *Store) Dir() string { return s.dir }

// Save writes one uploaded file to disk and returns its absolute path.
func (s *Store) Save(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	name := GenerateName(fh.Filename)
	dest := filepath.Join(s.dir, name)
	if err := c.SaveUploadedFile(fh, dest); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return dest, nil
}

// GenerateName builds a collision-resistant filename from a timestamp and a
// random token, preserving the original extension. Subtitle uploads without
// an extension default to .srt.
func GenerateName(original string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(original)))
	if ext == "" || len(ext) > 10 {
		ext = ".srt"
	}
	return fmt.Sprintf("%d_%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
}

// OutputBase builds a unique output base path in dir for a translation run.
// The worker appends its own extensions to this base.
func OutputBase(dir string) string {
	return filepath.Join(dir, fmt.Sprintf("translated_%d_%s", time.Now().UnixMilli(), uuid.NewString()))
}

// ReportPath builds a unique similarity report path in dir.
func ReportPath(dir string) string {
	return filepath.Join(dir, fmt.Sprintf("similarity_%d_%s.json", time.Now().UnixMilli(), uuid.NewString()))
}
