package constants

import (
	"net/http"
	"strings"
)

// AllowedExtensions holds the image extensions the pipeline accepts.
var AllowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether a file extension names a supported image format.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// DetectImageMIME sniffs the buffer content. Receipts arrive as JPEG or PNG;
// anything else falls back to image/jpeg, which is what the vision API assumes.
func DetectImageMIME(data []byte) string {
	switch ct := http.DetectContentType(data); ct {
	case "image/jpeg", "image/png":
		return ct
	default:
		return "image/jpeg"
	}
}
