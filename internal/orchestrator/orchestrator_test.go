package orchestrator

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/kapu/prompt-studio-go/internal/domain"
	"github.com/kapu/prompt-studio-go/internal/media"
	"github.com/kapu/prompt-studio-go/internal/prompt"
	studioerrors "github.com/kapu/prompt-studio-go/pkg/errors"
	"go.uber.org/zap"
)

type fakeGenerator struct {
	textReply      string
	textErr        error
	mediaReply     string
	mediaErr       error
	translateReply string
	translateErr   error
	panicOnText    bool

	textCalls      []string
	mediaCalls     []string
	mediaHints     []string
	translateCalls []string
}

func (f *fakeGenerator) GenerateFromText(_ context.Context, _ string, combinedInput string) (string, error) {
	f.textCalls = append(f.textCalls, combinedInput)
	if f.panicOnText {
		panic("sdk exploded")
	}
	return f.textReply, f.textErr
}

func (f *fakeGenerator) GenerateFromMedia(_ context.Context, _ string, _ []byte, mimeType, hint string) (string, error) {
	f.mediaCalls = append(f.mediaCalls, mimeType)
	f.mediaHints = append(f.mediaHints, hint)
	return f.mediaReply, f.mediaErr
}

func (f *fakeGenerator) Translate(_ context.Context, _ string, text string, _ domain.Language) (string, error) {
	f.translateCalls = append(f.translateCalls, text)
	return f.translateReply, f.translateErr
}

func (f *fakeGenerator) remoteCalls() int {
	return len(f.textCalls) + len(f.mediaCalls) + len(f.translateCalls)
}

type staticCredential string

func (s staticCredential) Get() (string, bool) {
	return string(s), s != ""
}

type counterIDs struct {
	n int
}

func (c *counterIDs) NextID() string {
	c.n++
	return strconv.Itoa(c.n)
}

var fixedNow = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func newOrchestrator(t *testing.T, gen Generator, credential string) *Orchestrator {
	t.Helper()
	o, err := New(Dependencies{
		Generator:   gen,
		Credentials: staticCredential(credential),
		IDs:         &counterIDs{},
		Validator:   media.NewValidator(5 * 1024 * 1024),
		Logger:      zap.NewNop(),
		Now:         func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return o
}

func coffeeRequest() domain.Request {
	return domain.NewStructuredRequest(domain.StructuredInput{
		Task:    "Write a slogan",
		Context: "for a coffee shop",
	})
}

func TestStructuredRequestProducesStructuredRecord(t *testing.T) {
	gen := &fakeGenerator{textReply: "Craft a warm slogan for a cozy coffee shop.", translateReply: "Tạo khẩu hiệu ấm áp cho quán cà phê."}
	o := newOrchestrator(t, gen, "key")

	rec, err := o.ProduceRecord(context.Background(), coffeeRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gen.textCalls) != 1 || len(gen.translateCalls) != 1 || len(gen.mediaCalls) != 0 {
		t.Fatalf("expected one generate and one translate call, got %d/%d/%d",
			len(gen.textCalls), len(gen.translateCalls), len(gen.mediaCalls))
	}
	if gen.translateCalls[0] != gen.textReply {
		t.Fatalf("translate must receive the english core, got %q", gen.translateCalls[0])
	}
	if rec.Mode != domain.ModeStructured || rec.FileInfo != nil {
		t.Fatalf("unexpected record shape: %+v", rec)
	}
	if rec.OriginalInput != gen.textCalls[0] {
		t.Fatalf("original input must be the exact combined text sent to generation")
	}
	if !strings.Contains(rec.OriginalInput, "Write a slogan") || !strings.Contains(rec.OriginalInput, "for a coffee shop") {
		t.Fatalf("combined input missing fields:\n%s", rec.OriginalInput)
	}
	if rec.English != gen.textReply || rec.Vietnamese != gen.translateReply {
		t.Fatalf("structured texts must be unframed: %q / %q", rec.English, rec.Vietnamese)
	}
	if rec.ID != "1" || rec.Timestamp != fixedNow.UnixMilli() {
		t.Fatalf("unexpected id/timestamp: %s %d", rec.ID, rec.Timestamp)
	}
	if rec.GenerationFailed || rec.TranslationFailed {
		t.Fatalf("no failure flags expected")
	}
}

func TestStructuredValidationMakesNoRemoteCall(t *testing.T) {
	for name, input := range map[string]domain.StructuredInput{
		"missing task":    {Context: "ctx"},
		"missing context": {Task: "task", Context: "   "},
	} {
		t.Run(name, func(t *testing.T) {
			gen := &fakeGenerator{}
			o := newOrchestrator(t, gen, "key")

			_, err := o.ProduceRecord(context.Background(), domain.NewStructuredRequest(input))
			if !studioerrors.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if gen.remoteCalls() != 0 {
				t.Fatalf("no remote call expected")
			}
		})
	}
}

func TestMissingCredentialIsConfigurationError(t *testing.T) {
	gen := &fakeGenerator{}
	o := newOrchestrator(t, gen, "")

	_, err := o.ProduceRecord(context.Background(), coffeeRequest())
	if !studioerrors.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if gen.remoteCalls() != 0 {
		t.Fatalf("no remote call expected")
	}
}

func TestImageRecordCarriesFileInfo(t *testing.T) {
	gen := &fakeGenerator{mediaReply: "a red fox in snow", translateReply: "một con cáo đỏ trong tuyết"}
	o := newOrchestrator(t, gen, "key")

	rec, err := o.ProduceRecord(context.Background(), domain.NewImageRequest(&domain.MediaInput{
		FileName: "fox.png",
		MIMEType: "image/png",
		Data:     []byte{1, 2, 3},
		Hint:     "  winter  ",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Mode != domain.ModeImage || rec.OriginalInput != "" {
		t.Fatalf("unexpected record shape: %+v", rec)
	}
	if rec.FileInfo == nil || rec.FileInfo.Name != "fox.png" || rec.FileInfo.MIMEType != "image/png" {
		t.Fatalf("unexpected file info: %+v", rec.FileInfo)
	}
	if rec.UserHint != "winter" || gen.mediaHints[0] != "winter" {
		t.Fatalf("hint must be trimmed: record %q, sent %q", rec.UserHint, gen.mediaHints[0])
	}
	if rec.English != "Generate an image with the following request: a red fox in snow" {
		t.Fatalf("unexpected english: %q", rec.English)
	}
	if rec.Vietnamese != "Tạo ảnh theo yêu cầu sau: một con cáo đỏ trong tuyết" {
		t.Fatalf("unexpected vietnamese: %q", rec.Vietnamese)
	}
}

func TestBlankHintIsAbsent(t *testing.T) {
	gen := &fakeGenerator{mediaReply: "x", translateReply: "y"}
	o := newOrchestrator(t, gen, "key")

	rec, err := o.ProduceRecord(context.Background(), domain.NewVideoRequest(&domain.MediaInput{
		FileName: "clip.mp4", MIMEType: "video/mp4", Data: []byte{1}, Hint: "   ",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.UserHint != "" || gen.mediaHints[0] != "" {
		t.Fatalf("blank hint must be absent")
	}
}

func TestMediaWithoutFileIsValidationError(t *testing.T) {
	gen := &fakeGenerator{}
	o := newOrchestrator(t, gen, "key")

	_, err := o.ProduceRecord(context.Background(), domain.NewImageRequest(nil))
	if !studioerrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gen.remoteCalls() != 0 {
		t.Fatalf("no remote call expected")
	}
}

func TestOversizedUploadRejectedBeforeNetwork(t *testing.T) {
	gen := &fakeGenerator{}
	o := newOrchestrator(t, gen, "key")

	_, err := o.ProduceRecord(context.Background(), domain.NewImageRequest(&domain.MediaInput{
		FileName: "big.png",
		MIMEType: "image/png",
		Data:     make([]byte, 10*1024*1024),
	}))
	if !studioerrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gen.remoteCalls() != 0 {
		t.Fatalf("no remote call expected")
	}
}

func TestGenerationFailureUsesFallbackForBothTexts(t *testing.T) {
	cases := map[string]*fakeGenerator{
		"error": {textErr: errors.New("503")},
		"empty": {textReply: "  "},
		"panic": {panicOnText: true},
	}
	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			o := newOrchestrator(t, gen, "key")
			rec, err := o.ProduceRecord(context.Background(), coffeeRequest())
			if err != nil {
				t.Fatalf("generation failure must not abort: %v", err)
			}
			if rec.English != prompt.GenerationFallback || rec.Vietnamese != prompt.GenerationFallback {
				t.Fatalf("expected fallback texts, got %q / %q", rec.English, rec.Vietnamese)
			}
			if !rec.GenerationFailed {
				t.Fatalf("expected generation failure flag")
			}
			if len(gen.translateCalls) != 0 {
				t.Fatalf("translate must not run on fallback text")
			}
		})
	}
}

func TestGenerationFailureIsFramedForMedia(t *testing.T) {
	gen := &fakeGenerator{mediaErr: errors.New("blocked")}
	o := newOrchestrator(t, gen, "key")

	rec, err := o.ProduceRecord(context.Background(), domain.NewImageRequest(&domain.MediaInput{
		FileName: "a.webp", MIMEType: "image/webp", Data: []byte{1},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.English != "Generate an image with the following request: "+prompt.GenerationFallback {
		t.Fatalf("unexpected english: %q", rec.English)
	}
	if rec.Vietnamese != "Tạo ảnh theo yêu cầu sau: "+prompt.GenerationFallback {
		t.Fatalf("unexpected vietnamese: %q", rec.Vietnamese)
	}
}

func TestVideoTranslationFailureKeepsEnglish(t *testing.T) {
	gen := &fakeGenerator{mediaReply: "a cat walking", translateErr: errors.New("translation quota exceeded")}
	o := newOrchestrator(t, gen, "key")

	rec, err := o.ProduceRecord(context.Background(), domain.NewVideoRequest(&domain.MediaInput{
		FileName: "cat.mp4", MIMEType: "video/mp4", Data: []byte{1, 2},
	}))
	if err != nil {
		t.Fatalf("translation failure must not abort: %v", err)
	}
	if rec.English != "Generate a video with the following request: a cat walking" {
		t.Fatalf("unexpected english: %q", rec.English)
	}
	if !strings.HasPrefix(rec.Vietnamese, "Tạo video theo yêu cầu sau: "+prompt.TranslationErrorPrefix) {
		t.Fatalf("unexpected vietnamese: %q", rec.Vietnamese)
	}
	if !strings.Contains(rec.Vietnamese, "translation quota exceeded") {
		t.Fatalf("vietnamese must embed the error message: %q", rec.Vietnamese)
	}
	if !rec.TranslationFailed || rec.GenerationFailed {
		t.Fatalf("unexpected flags: %+v", rec)
	}
	if rec.FileInfo == nil || rec.FileInfo.Name != "cat.mp4" || rec.OriginalInput != "" {
		t.Fatalf("unexpected record shape: %+v", rec)
	}
}

func TestUnknownModeIsValidationError(t *testing.T) {
	gen := &fakeGenerator{}
	o := newOrchestrator(t, gen, "key")

	_, err := o.ProduceRecord(context.Background(), domain.Request{Mode: "audio"})
	if !studioerrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRecordIDsAreUnique(t *testing.T) {
	gen := &fakeGenerator{textReply: "x", translateReply: "y"}
	o := newOrchestrator(t, gen, "key")

	first, _ := o.ProduceRecord(context.Background(), coffeeRequest())
	second, _ := o.ProduceRecord(context.Background(), coffeeRequest())
	if first.ID == second.ID {
		t.Fatalf("ids must be unique, got %s twice", first.ID)
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := New(Dependencies{}); err == nil {
		t.Fatalf("expected error for missing dependencies")
	}
}
