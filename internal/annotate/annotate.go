// Package annotate implements the AI annotation bridge: a dispatcher that
// observes newly created jobs and attaches a structured vision diagnosis
// to each, exactly once.
package annotate

import (
	"context"

	"github.com/salemkamoundev/Snay3ia/internal/models"
)

// Annotator produces a structured diagnosis for one breakdown.
type Annotator interface {
	Annotate(ctx context.Context, description string, mediaURLs []string) (*models.AIAnalysis, error)
}

// AnnotatorFunc adapts a function to the Annotator interface.
type AnnotatorFunc func(ctx context.Context, description string, mediaURLs []string) (*models.AIAnalysis, error)

// Annotate calls f.
func (f AnnotatorFunc) Annotate(ctx context.Context, description string, mediaURLs []string) (*models.AIAnalysis, error) {
	return f(ctx, description, mediaURLs)
}
