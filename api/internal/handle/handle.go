package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"recycle-lens/api/internal/llm"
	"recycle-lens/api/internal/logger"
)

type Handle struct {
	gw        llm.Gateway
	uploadDir string
	timeout   time.Duration
	log       *zap.Logger
}

type Options struct {
	// UploadDir receives staged uploads; empty means os.TempDir().
	UploadDir string
	// UpstreamTimeout bounds each request's upstream calls; 0 means no deadline.
	UpstreamTimeout time.Duration
}

func New(gw llm.Gateway, opts Options, log *zap.Logger) *Handle {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handle{
		gw:        gw,
		uploadDir: opts.UploadDir,
		timeout:   opts.UpstreamTimeout,
		log:       log,
	}
}

func (h *Handle) logger(r *http.Request) *zap.Logger {
	return logger.FromContext(r.Context(), h.log)
}

func (h *Handle) upstreamContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout > 0 {
		return context.WithTimeout(ctx, h.timeout)
	}
	return context.WithCancel(ctx)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if raw, ok := v.(json.RawMessage); ok {
		_, _ = w.Write(raw)
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// fail maps err to the response: invalid input is the caller's fault (400,
// "detail"), everything else collapses to 500 with the error text.
func (h *Handle) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	log := h.logger(r)
	if errors.Is(err, llm.ErrInvalidInput) {
		log.Info(op+" rejected", zap.String("detail", err.Error()))
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}

	var ue *llm.UpstreamError
	switch {
	case errors.As(err, &ue):
		log.Error(op+" upstream error", zap.String("upstream_op", ue.Op), zap.Int("upstream_status", ue.Status), zap.Error(ue.Err))
	case errors.Is(err, llm.ErrMalformedResponse):
		log.Warn(op + " malformed upstream response")
	default:
		log.Error(op+" failed", zap.Error(err))
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
