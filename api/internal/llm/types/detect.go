package types

// DetectionResult is what the detection prompt asks the model for. The
// endpoint passes the model's JSON through untouched; this type documents
// the expected shape and is the input of a follow-up analysis.
type DetectionResult struct {
	Object    string   `json:"object"`
	Materials []string `json:"materials"`
}
