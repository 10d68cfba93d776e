package sanitizer

import (
	"path"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxFilenameLength is the byte limit shared by common filesystems.
const MaxFilenameLength = 255

var (
	unsafeFilenameRegex = regexp.MustCompile(`[<>:"|?*]`)
	whitespaceRegex     = regexp.MustCompile(`\s+`)
)

// Reserved device names on Windows, compared case-insensitively without extension.
var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// Filename reduces a client-supplied name to a safe single path component.
// It returns "" when nothing usable remains.
func Filename(name string) string {
	name = norm.NFC.String(name)
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}

	name = RemoveControlChars(name)
	name = unsafeFilenameRegex.ReplaceAllString(name, "_")
	name = whitespaceRegex.ReplaceAllString(name, " ")
	name = strings.Trim(name, " .")
	if name == "" {
		return ""
	}

	stem := name
	if i := strings.IndexByte(name, '.'); i > 0 {
		stem = name[:i]
	}
	if _, ok := reservedNames[strings.ToUpper(stem)]; ok {
		name = "_" + name
	}

	return truncate(name, MaxFilenameLength)
}

// RemoveControlChars drops control and invisible format characters.
func RemoveControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, s)
}

// truncate cuts name to at most limit bytes without splitting a rune,
// keeping a short extension intact.
func truncate(name string, limit int) string {
	if len(name) <= limit {
		return name
	}

	ext := path.Ext(name)
	if len(ext) > 16 {
		ext = ""
	}
	stem := name[:len(name)-len(ext)]

	keep := limit - len(ext)
	for keep > 0 && !utf8.RuneStart(stem[keep]) {
		keep--
	}
	return strings.TrimRight(stem[:keep], " .") + ext
}
