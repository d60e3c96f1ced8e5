// Package tags extracts hashtag and mention tokens from free text.
package tags

// ExtractHashtags returns every #token in order of appearance.
// Duplicates are kept and case is preserved.
func ExtractHashtags(text string) []string {
	return extract(text, '#')
}

// ExtractMentions returns every @token in order of appearance.
func ExtractMentions(text string) []string {
	return extract(text, '@')
}

func extract(text string, marker byte) []string {
	var out []string
	for i := 0; i < len(text); i++ {
		if text[i] != marker {
			continue
		}
		j := i + 1
		for j < len(text) && isWordChar(text[j]) {
			j++
		}
		if j > i+1 {
			out = append(out, text[i+1:j])
		}
		i = j - 1
	}
	return out
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '_'
}
