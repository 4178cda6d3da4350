package llm

import "context"

// Gateway is the upstream generative model. Implementations must be safe for
// concurrent use; one instance serves every request.
type Gateway interface {
	Name() string
	// UploadAsset registers a local file with the upstream service.
	UploadAsset(ctx context.Context, path, mimeType string) (Asset, error)
	// Generate submits the parts under the configured generation settings and
	// returns the raw text of the completion.
	Generate(ctx context.Context, parts ...Part) (string, error)
}

// Part is one element of a prompt: Text or Asset.
type Part interface {
	isPart()
}

// Text is a literal prompt fragment.
type Text string

// Asset is the handle returned by UploadAsset.
type Asset struct {
	Name     string
	URI      string
	MIMEType string
}

func (Text) isPart()  {}
func (Asset) isPart() {}

// GenerationConfig holds the fixed sampling settings for every call.
type GenerationConfig struct {
	Temperature      float32
	TopP             float32
	TopK             int32
	MaxOutputTokens  int32
	ResponseMIMEType string
}

// DefaultGenerationConfig mirrors the settings the service has always used.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:      1,
		TopP:             0.95,
		TopK:             40,
		MaxOutputTokens:  8192,
		ResponseMIMEType: "application/json",
	}
}
