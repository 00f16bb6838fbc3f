package core

// sanitize.go cleans fragment text before it is parsed.
//
// Extraction output occasionally carries artifacts a CSV parser should never see:
//   - A UTF-8 BOM (0xEF 0xBB 0xBF) at the start of the body
//   - Invalid UTF-8 sequences from truncated multi-byte characters
//   - Windows line endings

import (
	"strings"
	"unicode/utf8"
)

const utf8BOM = "\xef\xbb\xbf"

// SanitizeFragment removes a leading BOM, replaces invalid UTF-8 sequences
// with U+FFFD and normalizes line endings to "\n".
func SanitizeFragment(s string) string {
	s = strings.TrimPrefix(s, utf8BOM)

	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, string(utf8.RuneError))
	}

	if strings.Contains(s, "\r") {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
	}

	return s
}
