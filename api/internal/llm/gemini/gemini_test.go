package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"

	"recycle-lens/api/internal/llm"
)

func TestFirstText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{name: "nil response", resp: nil, want: ""},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, want: ""},
		{
			name: "skips candidates without content",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: nil},
				{Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"object":"bottle"}`)}}},
			}},
			want: `{"object":"bottle"}`,
		},
		{
			name: "skips non-text parts",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []genai.Part{
					genai.Blob{MIMEType: "image/png", Data: []byte{1}},
					genai.Text("second"),
				}}},
			}},
			want: "second",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := firstText(tt.resp); got != tt.want {
				t.Errorf("firstText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToParts(t *testing.T) {
	t.Parallel()

	asset := llm.Asset{Name: "files/abc", URI: "https://example.test/files/abc", MIMEType: "image/jpeg"}
	got, err := toParts([]llm.Part{asset, llm.Text("describe")})
	if err != nil {
		t.Fatalf("toParts() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(got))
	}
	fd, ok := got[0].(genai.FileData)
	if !ok {
		t.Fatalf("expected FileData first, got %T", got[0])
	}
	if fd.URI != asset.URI || fd.MIMEType != asset.MIMEType {
		t.Errorf("unexpected file data %+v", fd)
	}
	if txt, ok := got[1].(genai.Text); !ok || string(txt) != "describe" {
		t.Errorf("expected text part, got %#v", got[1])
	}
}

func TestToPartsEmpty(t *testing.T) {
	t.Parallel()

	if _, err := toParts(nil); err == nil {
		t.Error("expected error for empty prompt")
	}
}

func TestGenerationConfig(t *testing.T) {
	t.Parallel()

	gc := generationConfig(llm.DefaultGenerationConfig())
	if gc.Temperature == nil || *gc.Temperature != 1 {
		t.Errorf("unexpected temperature %v", gc.Temperature)
	}
	if gc.TopP == nil || *gc.TopP != 0.95 {
		t.Errorf("unexpected topP %v", gc.TopP)
	}
	if gc.TopK == nil || *gc.TopK != 40 {
		t.Errorf("unexpected topK %v", gc.TopK)
	}
	if gc.MaxOutputTokens == nil || *gc.MaxOutputTokens != 8192 {
		t.Errorf("unexpected max tokens %v", gc.MaxOutputTokens)
	}
	if gc.ResponseMIMEType != "application/json" {
		t.Errorf("unexpected response mime %q", gc.ResponseMIMEType)
	}
}

func TestUpstreamError(t *testing.T) {
	t.Parallel()

	t.Run("googleapi status is kept", func(t *testing.T) {
		t.Parallel()
		cause := fmt.Errorf("rpc: %w", &googleapi.Error{Code: http.StatusTooManyRequests, Message: "quota"})
		err := upstreamError("gemini generate", cause)

		var ue *llm.UpstreamError
		if !errors.As(err, &ue) {
			t.Fatalf("expected UpstreamError, got %T", err)
		}
		if ue.Status != http.StatusTooManyRequests {
			t.Errorf("expected status 429, got %d", ue.Status)
		}
	})

	t.Run("transport errors have no status", func(t *testing.T) {
		t.Parallel()
		err := upstreamError("gemini upload", context.DeadlineExceeded)

		var ue *llm.UpstreamError
		if !errors.As(err, &ue) {
			t.Fatalf("expected UpstreamError, got %T", err)
		}
		if ue.Status != 0 {
			t.Errorf("expected status 0, got %d", ue.Status)
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Error("expected cause to be reachable")
		}
	})
}

func TestNewRequiresKey(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), "  ", "gemini-1.5-pro", llm.DefaultGenerationConfig(), nil); err == nil {
		t.Error("expected error for empty api key")
	}
}
