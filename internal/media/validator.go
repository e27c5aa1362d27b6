package media

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/kapu/prompt-studio-go/internal/domain"
	"github.com/kapu/prompt-studio-go/pkg/errors"
)

var AcceptedImageTypes = []string{
	"image/png",
	"image/jpeg",
	"image/jpg",
	"image/webp",
	"image/heic",
	"image/heif",
}

var AcceptedVideoTypes = []string{
	"video/mp4",
	"video/mpeg",
	"video/mov",
	"video/quicktime",
	"video/avi",
	"video/x-msvideo",
	"video/x-flv",
	"video/webm",
	"video/x-matroska",
	"image/gif",
}

// Validator enforces upload constraints before any remote call is made.
type Validator struct {
	maxBytes int64
}

func NewValidator(maxBytes int64) *Validator {
	return &Validator{maxBytes: maxBytes}
}

// Validate checks size and MIME type of an upload for mode and returns the MIME type
// to send. A blank declared type is detected from the content.
func (v *Validator) Validate(mode domain.Mode, input *domain.MediaInput) (string, error) {
	if !input.HasFile() {
		return "", errors.NewValidationError(
			fmt.Sprintf("Vui lòng chọn một tệp %s.", kindLabel(mode)), "file", "")
	}

	if v.maxBytes > 0 && int64(len(input.Data)) > v.maxBytes {
		return "", errors.NewValidationError(
			fmt.Sprintf("Tệp quá lớn. Kích thước tối đa là %dMB.", v.maxBytes/(1024*1024)),
			"file", len(input.Data))
	}

	mimeType := normalizeMIME(input.MIMEType)
	if mimeType == "" {
		mimeType = normalizeMIME(mimetype.Detect(input.Data).String())
	}

	accepted := AcceptedTypes(mode)
	if accepted == nil {
		return "", errors.NewValidationError("mode does not accept media uploads", "mode", string(mode))
	}
	if !contains(accepted, mimeType) {
		return "", errors.NewValidationError(
			fmt.Sprintf("Loại tệp %s không hợp lệ. Các loại được chấp nhận: %s.", kindLabel(mode), shortNames(accepted)),
			"mimeType", mimeType)
	}

	return mimeType, nil
}

// AcceptedTypes returns the MIME allow-list for a media mode, or nil for other modes.
func AcceptedTypes(mode domain.Mode) []string {
	switch mode {
	case domain.ModeImage:
		return AcceptedImageTypes
	case domain.ModeVideo:
		return AcceptedVideoTypes
	default:
		return nil
	}
}

func normalizeMIME(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if i := strings.IndexByte(value, ';'); i >= 0 {
		value = strings.TrimSpace(value[:i])
	}
	return value
}

func kindLabel(mode domain.Mode) string {
	if mode == domain.ModeVideo {
		return "video"
	}
	return "ảnh"
}

func shortNames(types []string) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t[strings.IndexByte(t, '/')+1:]
	}
	return strings.Join(names, ", ")
}

func contains(list []string, item string) bool {
	for _, s := range list {
		if s == item {
			return true
		}
	}
	return false
}
