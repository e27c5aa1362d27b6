package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kapu/prompt-studio-go/internal/domain"
	"github.com/kapu/prompt-studio-go/internal/media"
	"github.com/kapu/prompt-studio-go/internal/prompt"
	"github.com/kapu/prompt-studio-go/internal/util"
	"github.com/kapu/prompt-studio-go/pkg/errors"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
)

// Generator is the remote generation client used by the orchestrator.
type Generator interface {
	GenerateFromText(ctx context.Context, credential, combinedInput string) (string, error)
	GenerateFromMedia(ctx context.Context, credential string, media []byte, mimeType, hint string) (string, error)
	Translate(ctx context.Context, credential, text string, target domain.Language) (string, error)
}

// CredentialSource yields the current API credential.
type CredentialSource interface {
	Get() (string, bool)
}

// IDSource mints unique record ids.
type IDSource interface {
	NextID() string
}

type Dependencies struct {
	Generator   Generator
	Credentials CredentialSource
	IDs         IDSource
	Validator   *media.Validator
	Prompts     *prompt.PromptBuilder
	Logger      *zap.Logger
	Now         func() time.Time
}

// Orchestrator drives generate then translate and assembles a record.
type Orchestrator struct {
	generator   Generator
	credentials CredentialSource
	ids         IDSource
	validator   *media.Validator
	prompts     *prompt.PromptBuilder
	logger      *zap.Logger
	now         func() time.Time
}

func New(deps Dependencies) (*Orchestrator, error) {
	if deps.Generator == nil {
		return nil, fmt.Errorf("generator must not be nil")
	}
	if deps.Credentials == nil {
		return nil, fmt.Errorf("credential source must not be nil")
	}
	if deps.IDs == nil {
		return nil, fmt.Errorf("id source must not be nil")
	}
	if deps.Validator == nil {
		return nil, fmt.Errorf("media validator must not be nil")
	}

	o := &Orchestrator{
		generator:   deps.Generator,
		credentials: deps.Credentials,
		ids:         deps.IDs,
		validator:   deps.Validator,
		prompts:     deps.Prompts,
		logger:      deps.Logger,
		now:         deps.Now,
	}
	if o.prompts == nil {
		o.prompts = prompt.DefaultPromptBuilder()
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.now == nil {
		o.now = time.Now
	}
	return o, nil
}

// ProduceRecord turns a request into a record. Only configuration and validation
// failures are returned; generation and translation failures degrade into fallback text.
func (o *Orchestrator) ProduceRecord(ctx context.Context, req domain.Request) (*domain.Record, error) {
	credential, ok := o.credentials.Get()
	if !ok {
		return nil, errors.NewConfigurationError("Cần có Khóa API để tạo prompt.", "credential")
	}

	record := &domain.Record{Mode: req.Mode}
	var generate func() (string, error)

	switch req.Mode {
	case domain.ModeStructured:
		input := req.Structured
		if input == nil || util.IsBlank(input.Task) || util.IsBlank(input.Context) {
			return nil, errors.NewValidationError(
				"Đối với nhập liệu có cấu trúc, vui lòng điền ít nhất 'Nhiệm vụ' và 'Ngữ cảnh'.", "task", nil)
		}
		combined, err := o.prompts.StructuredRequest(*input)
		if err != nil {
			return nil, fmt.Errorf("build structured request: %w", err)
		}
		record.OriginalInput = combined
		generate = func() (string, error) {
			return o.generator.GenerateFromText(ctx, credential, combined)
		}

	case domain.ModeImage, domain.ModeVideo:
		mimeType, err := o.validator.Validate(req.Mode, req.Media)
		if err != nil {
			return nil, err
		}
		input := req.Media
		hint := strings.TrimSpace(input.Hint)
		record.FileInfo = &domain.FileInfo{Name: input.FileName, MIMEType: mimeType}
		record.UserHint = hint
		generate = func() (string, error) {
			return o.generator.GenerateFromMedia(ctx, credential, input.Data, mimeType, hint)
		}

	default:
		return nil, errors.NewValidationError("Chế độ nhập không hợp lệ.", "mode", string(req.Mode))
	}

	englishCore, err := o.call(generate)
	if err == nil && strings.TrimSpace(englishCore) == "" {
		err = fmt.Errorf("empty generation result")
	}

	var vietnameseCore string
	if err != nil {
		o.logger.Warn("Prompt generation failed, using fallback text",
			zap.String("mode", string(req.Mode)),
			zap.Error(err),
		)
		englishCore = prompt.GenerationFallback
		vietnameseCore = prompt.GenerationFallback
		record.GenerationFailed = true
	} else {
		vietnameseCore, err = o.call(func() (string, error) {
			return o.generator.Translate(ctx, credential, englishCore, domain.LanguageVietnamese)
		})
		if err == nil && strings.TrimSpace(vietnameseCore) == "" {
			err = fmt.Errorf("empty translation result")
		}
		if err != nil {
			o.logger.Warn("Vietnamese translation failed",
				zap.String("mode", string(req.Mode)),
				zap.Error(err),
			)
			vietnameseCore = prompt.TranslationFailure(err)
			record.TranslationFailed = true
		}
	}

	record.English, record.Vietnamese = prompt.Frame(req.Mode, englishCore, vietnameseCore)
	record.ID = o.ids.NextID()
	record.Timestamp = o.now().UnixMilli()

	o.logger.Info("Prompt record produced",
		zap.String("id", record.ID),
		zap.String("mode", string(record.Mode)),
		zap.Bool("generation_failed", record.GenerationFailed),
		zap.Bool("translation_failed", record.TranslationFailed),
		zap.String("preview", util.TruncateString(record.English, 80)),
	)
	return record, nil
}

// call runs one remote stage, converting a panic into an error.
func (o *Orchestrator) call(fn func() (string, error)) (out string, err error) {
	if recovered := panics.Try(func() { out, err = fn() }); recovered != nil {
		o.logger.Error("Remote call panicked", zap.String("panic", recovered.String()))
		return "", recovered.AsError()
	}
	return out, err
}
