package util

import (
	"mime"
	"net/http"
	"strings"
)

// PickMIME forwards the declared Content-Type unchanged when it parses and
// only sniffs the payload when the header is missing or malformed.
func PickMIME(declared string, head []byte) string {
	declared = strings.TrimSpace(declared)
	if _, _, err := mime.ParseMediaType(declared); err == nil {
		return declared
	}
	if len(head) > 0 {
		mt, _, _ := mime.ParseMediaType(http.DetectContentType(head))
		return mt
	}
	return "application/octet-stream"
}
