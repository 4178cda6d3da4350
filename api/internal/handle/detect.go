package handle

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"

	"recycle-lens/api/internal/llm"
	"recycle-lens/api/internal/llm/prompt"
	"recycle-lens/api/internal/llm/types"
	"recycle-lens/api/internal/stage"
	"recycle-lens/api/internal/util"
)

const (
	detectFormField = "file"
	sniffLen        = 512
	// multipart parts above this size spill to disk inside ParseMultipartForm
	multipartMemory = 32 << 20
)

var (
	errMissingFile    = llm.InvalidInput("Invalid input: 'file' is required.")
	errUploadTooLarge = llm.InvalidInput("Invalid input: upload is too large.")
)

// Detect stages the uploaded image, hands it to the model with the detection
// prompt and relays the model's JSON verbatim.
func (h *Handle) Detect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "POST only"})
		return
	}
	out, err := h.detect(r)
	if err != nil {
		h.fail(w, r, "detect", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handle) detect(r *http.Request) (json.RawMessage, error) {
	log := h.logger(r)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		switch {
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			return nil, errMissingFile
		case errors.Is(err, multipart.ErrMessageTooLarge):
			return nil, errUploadTooLarge
		}
		return nil, fmt.Errorf("read upload: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	file, hdr, err := r.FormFile(detectFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, errMissingFile
		}
		return nil, fmt.Errorf("read upload: %w", err)
	}
	defer file.Close()

	staged, err := stage.Save(h.uploadDir, file)
	if err != nil {
		return nil, err
	}
	defer h.discard(log, staged)

	mimeType := hdr.Header.Get("Content-Type")
	if head, err := staged.Head(sniffLen); err == nil {
		mimeType = util.PickMIME(mimeType, head)
	}
	log.Debug("upload staged",
		zap.String("filename", hdr.Filename),
		zap.String("mime_type", mimeType),
		zap.Int64("size", staged.Size))

	ctx, cancel := h.upstreamContext(r.Context())
	defer cancel()

	asset, err := h.gw.UploadAsset(ctx, staged.Path, mimeType)
	if err != nil {
		return nil, err
	}
	raw, err := h.gw.Generate(ctx, asset, llm.Text(prompt.Detect))
	if err != nil {
		return nil, err
	}
	h.discard(log, staged)

	out, err := util.ParseJSON(raw)
	if err != nil {
		log.Debug("detect: model text is not JSON", zap.String("raw", raw))
		return nil, err
	}

	var dr types.DetectionResult
	if json.Unmarshal(out, &dr) == nil {
		log.Info("object detected", zap.String("object", dr.Object), zap.Strings("materials", dr.Materials))
	}
	return out, nil
}

// discard removes the staged file; cleanup problems are only logged.
func (h *Handle) discard(log *zap.Logger, f *stage.File) {
	if err := f.Remove(); err != nil {
		log.Warn("remove staged upload", zap.String("path", f.Path), zap.Error(err))
	}
}
