package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"recycle-lens/api/internal/llm"
)

const (
	processingPoll     = 500 * time.Millisecond
	processingAttempts = 20
)

// Engine talks to Gemini through one client shared by all requests.
type Engine struct {
	Model string

	cl   *genai.Client
	gm   *genai.GenerativeModel
	log  *zap.Logger
	poll time.Duration
}

var _ llm.Gateway = (*Engine)(nil)

// New dials the API once. The key is validated by config before we get here.
func New(ctx context.Context, apiKey, model string, gc llm.GenerationConfig, log *zap.Logger) (*Engine, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is empty")
	}
	return newWithOptions(ctx, model, gc, log, option.WithAPIKey(apiKey))
}

func newWithOptions(ctx context.Context, model string, gc llm.GenerationConfig, log *zap.Logger, opts ...option.ClientOption) (*Engine, error) {
	cl, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}

	model = strings.TrimSpace(model)
	gm := cl.GenerativeModel(model)
	gm.GenerationConfig = generationConfig(gc)

	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		Model: model,
		cl:    cl,
		gm:    gm,
		log:   log.Named("gemini"),
		poll:  processingPoll,
	}, nil
}

func (e *Engine) Name() string { return "gemini" }

func (e *Engine) Close() error { return e.cl.Close() }

// UploadAsset pushes the file at path to the File API and waits until the
// service reports it usable.
func (e *Engine) UploadAsset(ctx context.Context, path, mimeType string) (llm.Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return llm.Asset{}, fmt.Errorf("gemini upload: open %s: %w", path, err)
	}
	defer f.Close()

	file, err := e.cl.UploadFile(ctx, "", f, &genai.UploadFileOptions{
		DisplayName: filepath.Base(path),
		MIMEType:    mimeType,
	})
	if err != nil {
		return llm.Asset{}, upstreamError("gemini upload", err)
	}

	for i := 0; file.State == genai.FileStateProcessing && i < processingAttempts; i++ {
		select {
		case <-ctx.Done():
			return llm.Asset{}, upstreamError("gemini upload", ctx.Err())
		case <-time.After(e.poll):
		}
		if file, err = e.cl.GetFile(ctx, file.Name); err != nil {
			return llm.Asset{}, upstreamError("gemini upload", err)
		}
	}
	if file.State == genai.FileStateFailed {
		return llm.Asset{}, upstreamError("gemini upload", fmt.Errorf("file %s failed processing", file.Name))
	}

	e.log.Debug("asset uploaded",
		zap.String("name", file.Name),
		zap.String("mime_type", file.MIMEType),
		zap.Int64("size", file.SizeBytes))

	return llm.Asset{Name: file.Name, URI: file.URI, MIMEType: file.MIMEType}, nil
}

// Generate sends the parts in order and returns the first text part of the answer.
func (e *Engine) Generate(ctx context.Context, parts ...llm.Part) (string, error) {
	gp, err := toParts(parts)
	if err != nil {
		return "", err
	}

	resp, err := e.gm.GenerateContent(ctx, gp...)
	if err != nil {
		return "", upstreamError("gemini generate", err)
	}
	txt := firstText(resp)
	if txt == "" {
		return "", upstreamError("gemini generate", llm.ErrEmptyResponse)
	}
	return txt, nil
}

// --------------------------- helpers ---------------------------

func generationConfig(gc llm.GenerationConfig) genai.GenerationConfig {
	return genai.GenerationConfig{
		Temperature:      ptr(gc.Temperature),
		TopP:             ptr(gc.TopP),
		TopK:             ptr(gc.TopK),
		MaxOutputTokens:  ptr(gc.MaxOutputTokens),
		ResponseMIMEType: gc.ResponseMIMEType,
	}
}

func toParts(parts []llm.Part) ([]genai.Part, error) {
	out := make([]genai.Part, 0, len(parts))
	for _, p := range parts {
		switch v := p.(type) {
		case llm.Text:
			out = append(out, genai.Text(v))
		case llm.Asset:
			out = append(out, genai.FileData{MIMEType: v.MIMEType, URI: v.URI})
		default:
			return nil, fmt.Errorf("gemini: unsupported prompt part %T", p)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("gemini: empty prompt")
	}
	return out, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func upstreamError(op string, err error) error {
	ue := &llm.UpstreamError{Op: op, Err: err}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		ue.Status = gerr.Code
	}
	return ue
}

func ptr[T any](v T) *T { return &v }
