package driven

import "context"

// Summarizer condenses extracted text via a language-model provider.
type Summarizer interface {
	// Summarize returns a condensed summary of the text. The filename is
	// passed for prompt context only. Provider failures (quota,
	// authentication, malformed response) wrap domain.ErrSummaryProvider.
	Summarize(ctx context.Context, text, filename string) (string, error)

	// ModelName returns the name of the configured model.
	ModelName() string
}
