package llm

import "context"

// Provider defines the interface for the local text-generation backend.
// Implementations handle protocol-specific details such as request
// formatting, stream parsing, and error classification.
type Provider interface {
	// Generate sends a blocking generation request and returns the full text.
	Generate(ctx context.Context, prompt string) (string, error)

	// GenerateStream sends a streaming generation request, invoking onChunk
	// synchronously for every non-empty fragment in arrival order, and
	// returns the accumulated text. Cancelling ctx stops consumption and
	// returns types.ErrGenerationAborted.
	GenerateStream(ctx context.Context, prompt string, onChunk func(string)) (string, error)

	// TestConnection is an advisory reachability probe. It never fails;
	// any error is reported as false.
	TestConnection(ctx context.Context) bool

	// VerifyIdentity sends a fixed confirmation prompt and returns the raw
	// reply, for diagnosing which model is actually answering.
	VerifyIdentity(ctx context.Context) (string, error)
}

// Config holds common configuration for generation providers.
type Config struct {
	BaseURL     string
	Model       string
	Temperature float64
	TopP        float64
	TopK        int
	// TimeoutSeconds bounds the blocking Generate call. Streaming calls are
	// bounded by their context instead.
	TimeoutSeconds int
}
