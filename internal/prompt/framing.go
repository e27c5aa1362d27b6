package prompt

import "github.com/kapu/prompt-studio-go/internal/domain"

// GenerationFallback replaces the core text when generation fails or returns nothing.
// Records carrying it also have GenerationFailed set, so callers never match on it.
const GenerationFallback = "Tạo prompt thất bại hoặc trả về rỗng."

// TranslationErrorPrefix marks a Vietnamese text that is a translation failure report.
const TranslationErrorPrefix = "Lỗi dịch: "

// Framing is the lead-in placed before both language variants of a media prompt.
type Framing struct {
	English    string
	Vietnamese string
}

var framings = map[domain.Mode]Framing{
	domain.ModeImage: {
		English:    "Generate an image with the following request: ",
		Vietnamese: "Tạo ảnh theo yêu cầu sau: ",
	},
	domain.ModeVideo: {
		English:    "Generate a video with the following request: ",
		Vietnamese: "Tạo video theo yêu cầu sau: ",
	},
}

// FramingFor returns the lead-ins for mode; text and structured modes are unframed.
func FramingFor(mode domain.Mode) Framing {
	return framings[mode]
}

// Frame applies the mode lead-ins to both core texts.
func Frame(mode domain.Mode, english, vietnamese string) (string, string) {
	f := FramingFor(mode)
	return f.English + english, f.Vietnamese + vietnamese
}

// TranslationFailure builds the Vietnamese fallback for a failed translation.
func TranslationFailure(err error) string {
	return TranslationErrorPrefix + err.Error()
}
