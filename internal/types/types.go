// Package types defines core data types and enums for the markdown translator.
package types

import "fmt"

// Config holds the application configuration.
type Config struct {
	Provider       string `json:"provider"`          // "openai", "gemini" or "eino"
	OpenAIAPIKey   string `json:"openai_api_key"`
	OpenAIBaseURL  string `json:"openai_base_url"`   // Base URL for OpenAI-compatible APIs
	OpenAIModel    string `json:"openai_model"`
	GeminiAPIKey   string `json:"gemini_api_key"`
	GeminiModel    string `json:"gemini_model"`
	TargetLanguage string `json:"target_language"`   // BCP 47-ish language name, e.g. "Chinese"
	Concurrency    int    `json:"concurrency"`       // concurrent translation calls, default 3
	CachePath      string `json:"cache_path"`        // persistent translation cache file, empty disables
	GlossaryPath   string `json:"glossary_path"`     // optional YAML glossary of protected terms
}

// TOCEntry is a single table-of-contents entry extracted from a heading line.
type TOCEntry struct {
	Level    int    // heading level, 1-6
	Text     string // trimmed heading text
	Position int    // byte offset of the heading marker in the source document
}

// Paragraph is one blank-line-delimited block of the heading-stripped document.
type Paragraph struct {
	Text     string
	Length   int
	HasImage bool
}

// ImageRef is an inline image reference found in the source document.
// TranslatedAlt and TranslatedContext are filled in after the translation
// phase and drive the repositioning of images in the reconstructed body.
type ImageRef struct {
	Alt              string
	Src              string // locator, never modified or validated
	Position         int    // byte offset of the match in the source document
	Context          string // window of source text around the reference
	ParagraphContext string // full source paragraph containing the reference
	TranslatedAlt     string
	TranslatedContext string
}

// TranslationResult holds the outcome of a document translation.
type TranslationResult struct {
	OriginalContent   string
	TranslatedContent string
	Headings          int
	Paragraphs        int
	Images            int
}

// ErrorCode identifies a class of application error.
type ErrorCode string

const (
	ErrNetwork      ErrorCode = "NETWORK_ERROR"
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrAPICall      ErrorCode = "API_CALL_ERROR"
	ErrAPIRateLimit ErrorCode = "API_RATE_LIMIT"
	ErrConfig       ErrorCode = "CONFIG_ERROR"
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrTranslation  ErrorCode = "TRANSLATION_ERROR"
	ErrCache        ErrorCode = "CACHE_ERROR"
)

// AppError is the single error type surfaced by this application. Backend
// specific failures (HTTP status codes, SDK errors) are wrapped rather than
// leaked to callers.
type AppError struct {
	Code    ErrorCode
	Message string
	Details string
	Cause   error
}

// Error implements the error interface for AppError.
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError with the given code, message, and optional cause.
func NewAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewAppErrorWithDetails creates a new AppError carrying additional details.
func NewAppErrorWithDetails(code ErrorCode, message, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}
