package handle

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"recycle-lens/api/internal/llm"
	"recycle-lens/api/internal/llm/prompt"
	"recycle-lens/api/internal/llm/types"
	"recycle-lens/api/internal/util"
)

var (
	errMissingFields = llm.InvalidInput("Invalid input: 'object' and 'materials' are required.")
	errNotObject     = llm.InvalidInput("Invalid input: request body must be a JSON object.")
	errFieldTypes    = llm.InvalidInput("Invalid input: 'object' must be a string and 'materials' a list of strings.")
)

// Analyze asks the model for the environmental impact, recycling and
// upcycling of an object and relays the model's JSON verbatim.
func (h *Handle) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "POST only"})
		return
	}
	out, err := h.analyze(r)
	if err != nil {
		h.fail(w, r, "analyze", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handle) analyze(r *http.Request) (json.RawMessage, error) {
	log := h.logger(r)

	in, err := decodeAnalysisRequest(r)
	if err != nil {
		return nil, err
	}

	ctx, cancel := h.upstreamContext(r.Context())
	defer cancel()

	raw, err := h.gw.Generate(ctx, llm.Text(prompt.Analyze(in)))
	if err != nil {
		return nil, err
	}
	out, err := util.ParseJSON(raw)
	if err != nil {
		log.Debug("analyze: model text is not JSON", zap.String("raw", raw))
		return nil, err
	}
	log.Info("object analyzed", zap.String("object", in.Object), zap.Int("materials", len(in.Materials)))
	return out, nil
}

// decodeAnalysisRequest requires exactly one JSON document with both keys
// present before looking at their values.
func decodeAnalysisRequest(r *http.Request) (types.AnalysisRequest, error) {
	var body map[string]json.RawMessage
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&body); err != nil {
		return types.AnalysisRequest{}, errNotObject
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return types.AnalysisRequest{}, errNotObject
	}
	obj, okObj := body["object"]
	mats, okMats := body["materials"]
	if !okObj || !okMats {
		return types.AnalysisRequest{}, errMissingFields
	}

	var in types.AnalysisRequest
	if isNull(obj) || isNull(mats) ||
		json.Unmarshal(obj, &in.Object) != nil ||
		json.Unmarshal(mats, &in.Materials) != nil {
		return types.AnalysisRequest{}, errFieldTypes
	}
	return in, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
