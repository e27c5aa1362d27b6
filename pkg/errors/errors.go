package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	CodeStudioError   = "STUDIO_ERROR"
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodeValidation    = "VALIDATION_ERROR"
	CodeGeneration    = "GENERATION_ERROR"
	CodeTranslation   = "TRANSLATION_ERROR"
	CodeStorage       = "STORAGE_ERROR"
)

type StudioError struct {
	Message string
	Code    string
	Context map[string]any
	Cause   error
}

func (e *StudioError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StudioError) Unwrap() error {
	return e.Cause
}

func (e *StudioError) ErrorCode() string {
	return e.Code
}

func NewStudioError(message, code string, context map[string]any) *StudioError {
	return &StudioError{
		Message: message,
		Code:    code,
		Context: context,
	}
}

func (e *StudioError) WithCause(cause error) *StudioError {
	e.Cause = cause
	return e
}

// ConfigurationError reports a missing or unusable credential or setting.
type ConfigurationError struct {
	*StudioError
	Setting string
}

func NewConfigurationError(message, setting string) *ConfigurationError {
	return &ConfigurationError{
		StudioError: &StudioError{
			Message: message,
			Code:    CodeConfiguration,
			Context: map[string]any{
				"setting": setting,
			},
		},
		Setting: setting,
	}
}

type ValidationError struct {
	*StudioError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		StudioError: &StudioError{
			Message: message,
			Code:    CodeValidation,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

// GenerationError wraps a failed or unusable remote generation call.
type GenerationError struct {
	*StudioError
	Provider  string
	Operation string
}

func NewGenerationError(message, provider, operation string, cause error) *GenerationError {
	return &GenerationError{
		StudioError: &StudioError{
			Message: message,
			Code:    CodeGeneration,
			Context: map[string]any{
				"provider":  provider,
				"operation": operation,
			},
			Cause: cause,
		},
		Provider:  provider,
		Operation: operation,
	}
}

type TranslationError struct {
	*StudioError
	Provider string
	Target   string
}

func NewTranslationError(message, provider, target string, cause error) *TranslationError {
	return &TranslationError{
		StudioError: &StudioError{
			Message: message,
			Code:    CodeTranslation,
			Context: map[string]any{
				"provider": provider,
				"target":   target,
			},
			Cause: cause,
		},
		Provider: provider,
		Target:   target,
	}
}

type StorageError struct {
	*StudioError
	Operation string
	Key       string
}

func NewStorageError(message, operation, key string, cause error) *StorageError {
	return &StorageError{
		StudioError: &StudioError{
			Message: message,
			Code:    CodeStorage,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return stderrors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return stderrors.As(err, &target)
}

func IsGeneration(err error) bool {
	var target *GenerationError
	return stderrors.As(err, &target)
}

func IsTranslation(err error) bool {
	var target *TranslationError
	return stderrors.As(err, &target)
}

func IsStorage(err error) bool {
	var target *StorageError
	return stderrors.As(err, &target)
}

// CodeOf returns the taxonomy code of err, or an empty string for foreign errors.
func CodeOf(err error) string {
	var coded interface{ ErrorCode() string }
	if stderrors.As(err, &coded) {
		return coded.ErrorCode()
	}
	return ""
}
