package upload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrInvalidType is returned when a file's media type is not acceptable for
// its kind.
var ErrInvalidType = errors.New("invalid file type")

// ErrTooLarge is returned when a manuscript exceeds the configured ceiling.
var ErrTooLarge = errors.New("file too large")

// FileInfo describes a locally selected file, before any network use.
type FileInfo struct {
	Name        string
	Size        int64
	ContentType string
}

// Stat builds a FileInfo for a local file, sniffing the media type from the
// file content.
func Stat(path string) (FileInfo, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("stat upload file: %w", err)
	}

	info := FileInfo{Name: filepath.Base(path), Size: fi.Size()}
	if mt, err := mimetype.DetectFile(path); err == nil {
		info.ContentType = mt.String()
	}
	return info, nil
}

// Limits holds the validation configuration. The manuscript allow-set and
// size ceiling vary between deployments, so they are config rather than
// constants.
type Limits struct {
	// MaxManuscriptBytes is inclusive: a file of exactly this size passes.
	MaxManuscriptBytes int64
	// ManuscriptFormats lists accepted file extensions, lowercase, no dot.
	ManuscriptFormats []string
}

// DefaultLimits returns the stock configuration: PDF/EPUB/MOBI up to 50 MiB.
func DefaultLimits() Limits {
	return Limits{
		MaxManuscriptBytes: 50 << 20,
		ManuscriptFormats:  []string{"pdf", "epub", "mobi"},
	}
}

// manuscriptTypes maps accepted extensions to their declared media types.
var manuscriptTypes = map[string]string{
	"pdf":  "application/pdf",
	"epub": "application/epub+zip",
	"mobi": "application/x-mobipocket-ebook",
}

// Validator checks locally selected files before upload. The check is
// advisory: the server applies no equivalent per-kind validation.
type Validator struct {
	limits Limits
}

func NewValidator(limits Limits) *Validator {
	return &Validator{limits: limits}
}

// ValidateCover accepts any file whose media type indicates an image.
func (v *Validator) ValidateCover(f FileInfo) error {
	if !strings.HasPrefix(f.ContentType, "image/") {
		return fmt.Errorf("cover %q: %w: want an image, got %q", f.Name, ErrInvalidType, f.ContentType)
	}
	return nil
}

// ValidateManuscript accepts files whose type or extension is in the
// configured allow-set and whose size does not exceed the ceiling.
func (v *Validator) ValidateManuscript(f FileInfo) error {
	if !v.manuscriptTypeOK(f) {
		return fmt.Errorf("manuscript %q: %w: want one of %s",
			f.Name, ErrInvalidType, strings.Join(v.limits.ManuscriptFormats, ", "))
	}
	if f.Size > v.limits.MaxManuscriptBytes {
		return fmt.Errorf("manuscript %q: %w: %d bytes exceeds the %d byte limit",
			f.Name, ErrTooLarge, f.Size, v.limits.MaxManuscriptBytes)
	}
	return nil
}

func (v *Validator) manuscriptTypeOK(f FileInfo) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Name), "."))
	for _, format := range v.limits.ManuscriptFormats {
		if ext == format {
			return true
		}
		if declared, ok := manuscriptTypes[format]; ok && f.ContentType == declared {
			return true
		}
	}
	return false
}
