package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"text/template"

	"github.com/kapu/prompt-studio-go/internal/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type TemplateName string

const (
	TemplateRefineSystem      TemplateName = "refine_system.tmpl"
	TemplateMediaSystem       TemplateName = "media_system.tmpl"
	TemplateStructuredRequest TemplateName = "structured_request.tmpl"
	TemplateTranslate         TemplateName = "translate.tmpl"
	TemplateMediaHint         TemplateName = "media_hint.tmpl"
)

type PromptBuilder struct {
	mu        sync.RWMutex
	templates map[TemplateName]*template.Template
}

var (
	defaultBuilderOnce sync.Once
	defaultBuilder     *PromptBuilder
)

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{
		templates: make(map[TemplateName]*template.Template),
	}
}

func DefaultPromptBuilder() *PromptBuilder {
	defaultBuilderOnce.Do(func() {
		defaultBuilder = NewPromptBuilder()
	})
	return defaultBuilder
}

func (pb *PromptBuilder) Render(name TemplateName, data any) (string, error) {
	tmpl, err := pb.getTemplate(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}

	return buf.String(), nil
}

// StructuredRequest renders the combined instruction sent for structured input.
func (pb *PromptBuilder) StructuredRequest(input domain.StructuredInput) (string, error) {
	return pb.Render(TemplateStructuredRequest, StructuredRequestData{
		Task:           input.Task,
		Context:        input.Context,
		Requirements:   input.Requirements,
		LanguageFormat: input.LanguageFormat,
		Examples:       input.Examples,
	})
}

func (pb *PromptBuilder) RefineSystemInstruction() (string, error) {
	return pb.renderTrimmed(TemplateRefineSystem, nil)
}

func (pb *PromptBuilder) MediaSystemInstruction() (string, error) {
	return pb.renderTrimmed(TemplateMediaSystem, nil)
}

// MediaHint renders the text part sent next to the media; a blank hint yields the
// default describe instruction.
func (pb *PromptBuilder) MediaHint(hint string) (string, error) {
	return pb.renderTrimmed(TemplateMediaHint, MediaHintData{Hint: strings.TrimSpace(hint)})
}

func (pb *PromptBuilder) Translate(text string, target domain.Language) (string, error) {
	return pb.renderTrimmed(TemplateTranslate, TranslateData{Text: text, Target: string(target)})
}

func (pb *PromptBuilder) renderTrimmed(name TemplateName, data any) (string, error) {
	out, err := pb.Render(name, data)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (pb *PromptBuilder) getTemplate(name TemplateName) (*template.Template, error) {
	pb.mu.RLock()
	if tmpl, ok := pb.templates[name]; ok {
		pb.mu.RUnlock()
		return tmpl, nil
	}
	pb.mu.RUnlock()

	filename := filepath.ToSlash(filepath.Join("templates", string(name)))
	content, err := templateFS.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("load prompt template %s: %w", name, err)
	}

	tmpl, err := template.New(string(name)).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse prompt template %s: %w", name, err)
	}

	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.templates[name] = tmpl

	return tmpl, nil
}
