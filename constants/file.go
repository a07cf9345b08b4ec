package constants

import "strings"

// MaxUploadBytes caps receipt uploads at 16 MiB, enforced at the HTTP
// boundary before the extractor ever sees the file.
const MaxUploadBytes = 16 << 20

// AllowedExtensions holds the accepted receipt image extensions.
var AllowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether a filename extension is an accepted image type.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
