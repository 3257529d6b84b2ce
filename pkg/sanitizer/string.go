package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeOptional trims s and maps blank input to nil.
func NormalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := TrimAndNormalize(*s)
	if v == "" {
		return nil
	}
	return &v
}

// NormalizeMultiline trims each line but keeps line breaks. Used for notes and
// messages where paragraphs matter.
func NormalizeMultiline(s *string) *string {
	if s == nil {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(*s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = TrimAndNormalize(line)
	}
	v := strings.TrimSpace(strings.Join(lines, "\n"))
	if v == "" {
		return nil
	}
	return &v
}
