package upload

import "strings"

// mimeExtensions maps sniffed MIME types to the canonical file extension.
var mimeExtensions = map[string]string{
	// Images
	"image/png":                 "png",
	"image/jpeg":                "jpg",
	"image/gif":                 "gif",
	"image/webp":                "webp",
	"image/bmp":                 "bmp",
	"image/tiff":                "tiff",
	"image/svg+xml":             "svg",
	"image/x-icon":              "ico",
	"image/vnd.microsoft.icon":  "ico",
	"image/heic":                "heic",
	"image/heif":                "heif",
	"image/avif":                "avif",
	"image/jxl":                 "jxl",
	"image/vnd.adobe.photoshop": "psd",

	// Documents
	"application/pdf":               "pdf",
	"application/rtf":               "rtf",
	"text/rtf":                      "rtf",
	"application/msword":            "doc",
	"application/vnd.ms-excel":      "xls",
	"application/vnd.ms-powerpoint": "ppt",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   "docx",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         "xlsx",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": "pptx",
	"application/vnd.oasis.opendocument.text":                                   "odt",
	"application/vnd.oasis.opendocument.spreadsheet":                            "ods",
	"application/epub+zip": "epub",

	// Text
	"text/plain":                "txt",
	"text/html":                 "html",
	"text/css":                  "css",
	"text/csv":                  "csv",
	"text/tab-separated-values": "tsv",
	"text/xml":                  "xml",
	"application/xml":           "xml",
	"application/json":          "json",
	"text/javascript":           "js",
	"application/javascript":    "js",
	"text/markdown":             "md",

	// Archives
	"application/zip":              "zip",
	"application/gzip":             "gz",
	"application/x-gzip":           "gz",
	"application/x-tar":            "tar",
	"application/x-bzip2":          "bz2",
	"application/x-xz":             "xz",
	"application/x-7z-compressed":  "7z",
	"application/vnd.rar":          "rar",
	"application/x-rar-compressed": "rar",
	"application/zstd":             "zst",

	// Audio
	"audio/mpeg":   "mp3",
	"audio/wav":    "wav",
	"audio/x-wav":  "wav",
	"audio/ogg":    "ogg",
	"audio/flac":   "flac",
	"audio/x-flac": "flac",
	"audio/aac":    "aac",
	"audio/mp4":    "m4a",
	"audio/x-m4a":  "m4a",
	"audio/webm":   "weba",

	// Video
	"video/mp4":        "mp4",
	"video/mpeg":       "mpeg",
	"video/webm":       "webm",
	"video/ogg":        "ogv",
	"video/quicktime":  "mov",
	"video/x-msvideo":  "avi",
	"video/x-matroska": "mkv",
	"video/x-flv":      "flv",
	"video/3gpp":       "3gp",

	// Fonts
	"font/ttf":   "ttf",
	"font/otf":   "otf",
	"font/woff":  "woff",
	"font/woff2": "woff2",
}

var knownExtensions = func() map[string]bool {
	exts := make(map[string]bool, len(mimeExtensions))
	for _, ext := range mimeExtensions {
		exts[ext] = true
	}
	// Common aliases that never come out of the table
	for _, ext := range []string{"jpeg", "tif", "htm", "mpg", "text"} {
		exts[ext] = true
	}
	return exts
}()

// ExtensionForMIMEType returns the canonical extension for mimeType, without a dot.
func ExtensionForMIMEType(mimeType string) (string, bool) {
	ext, ok := mimeExtensions[strings.ToLower(strings.TrimSpace(mimeType))]
	return ext, ok
}

// IsKnownExtension reports whether ext (with or without a leading dot) is an extension
// the MIME table knows about.
func IsKnownExtension(ext string) bool {
	return knownExtensions[strings.ToLower(strings.TrimPrefix(ext, "."))]
}
