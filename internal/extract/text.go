package extract

import (
	"bytes"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
)

// Text decodes the raw bytes of a named file into plain text, dispatching on
// the filename extension. Decoding problems are never surfaced as errors: a
// document that cannot be decoded yields an empty string, and callers decide
// whether the result is long enough to be usable.
func Text(filename string, data []byte) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, _, err := docconv.ConvertPDF(bytes.NewReader(data))
		if err != nil {
			return ""
		}
		return text
	case ".docx":
		text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
		if err != nil {
			return ""
		}
		return text
	case ".doc":
		text, _, err := docconv.ConvertDoc(bytes.NewReader(data))
		if err != nil {
			return ""
		}
		return text
	default:
		// Permissive plain-text decode: invalid byte sequences are dropped.
		return strings.ToValidUTF8(string(data), "")
	}
}
