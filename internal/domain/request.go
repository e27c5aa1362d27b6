package domain

// StructuredInput holds the five labeled fields of the structured form.
type StructuredInput struct {
	Task           string
	Context        string
	Requirements   string
	LanguageFormat string
	Examples       string
}

// MediaInput is an uploaded image or video plus an optional hint.
type MediaInput struct {
	FileName string
	MIMEType string
	Data     []byte
	Hint     string
}

// Request is a tagged variant: Mode selects which payload is set.
type Request struct {
	Mode       Mode
	Structured *StructuredInput
	Media      *MediaInput
}

func NewStructuredRequest(input StructuredInput) Request {
	return Request{Mode: ModeStructured, Structured: &input}
}

func NewImageRequest(input *MediaInput) Request {
	return Request{Mode: ModeImage, Media: input}
}

func NewVideoRequest(input *MediaInput) Request {
	return Request{Mode: ModeVideo, Media: input}
}

// HasFile reports whether a media file was selected.
func (m *MediaInput) HasFile() bool {
	return m != nil && len(m.Data) > 0
}
