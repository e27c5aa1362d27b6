package domain

import "time"

// Mode identifies how a prompt record was produced.
type Mode string

const (
	ModeText       Mode = "text"
	ModeStructured Mode = "structured"
	ModeImage      Mode = "image"
	ModeVideo      Mode = "video"
)

func (m Mode) IsMedia() bool {
	return m == ModeImage || m == ModeVideo
}

func (m Mode) Valid() bool {
	switch m {
	case ModeText, ModeStructured, ModeImage, ModeVideo:
		return true
	default:
		return false
	}
}

// FileInfo describes the uploaded media a record was generated from.
type FileInfo struct {
	Name     string `json:"name"`
	MIMEType string `json:"type"`
}

// Record is one generation result. Only English and Vietnamese change after creation.
type Record struct {
	ID                string    `json:"id"`
	English           string    `json:"english"`
	Vietnamese        string    `json:"vietnamese"`
	Mode              Mode      `json:"mode"`
	Timestamp         int64     `json:"timestamp"`
	OriginalInput     string    `json:"originalInput,omitempty"`
	FileInfo          *FileInfo `json:"fileInfo,omitempty"`
	UserHint          string    `json:"userHint,omitempty"`
	GenerationFailed  bool      `json:"generationFailed,omitempty"`
	TranslationFailed bool      `json:"translationFailed,omitempty"`
}

// CreatedAt returns the creation time encoded in Timestamp.
func (r *Record) CreatedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Clone returns a deep copy so callers cannot mutate stored records.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	cp := *r
	if r.FileInfo != nil {
		info := *r.FileInfo
		cp.FileInfo = &info
	}
	return &cp
}

// WithTexts returns a copy carrying new texts and every other field unchanged.
func (r *Record) WithTexts(english, vietnamese string) *Record {
	cp := r.Clone()
	cp.English = english
	cp.Vietnamese = vietnamese
	return cp
}
