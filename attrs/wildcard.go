package attrs

import (
	"strings"
	"unicode"
)

// HasWildcards reports whether s contains any of the wildcard characters
// *, ? or [.
func HasWildcards(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

// Match compares two attribute values. Either side may contain wildcards:
//
//	*      any sequence of characters, including none
//	?      any single character
//	[abc]  any one of the listed characters
//
// Comparison is case-insensitive.
func Match(a, b string) bool {
	switch {
	case a == b:
		return true
	case HasWildcards(a):
		return glob([]rune(a), []rune(b))
	case HasWildcards(b):
		return glob([]rune(b), []rune(a))
	default:
		return strings.EqualFold(a, b)
	}
}

// glob matches s against pattern p, backtracking to the most recent star.
func glob(p, s []rune) bool {
	pi, si := 0, 0
	star, mark := -1, 0
	for si < len(s) {
		if pi < len(p) {
			switch p[pi] {
			case '*':
				star, mark = pi, si
				pi++
				continue
			case '?':
				pi++
				si++
				continue
			case '[':
				if end, ok := matchClass(p, pi, s[si]); ok {
					pi = end
					si++
					continue
				}
			default:
				if equalFold(p[pi], s[si]) {
					pi++
					si++
					continue
				}
			}
		}
		if star < 0 {
			return false
		}
		mark++
		pi, si = star+1, mark
	}
	for pi < len(p) && p[pi] == '*' {
		pi++
	}
	return pi == len(p)
}

// matchClass reports whether r is in the character class starting at p[start]
// and returns the index just past the closing bracket. An unterminated class
// is treated as a literal '['.
func matchClass(p []rune, start int, r rune) (int, bool) {
	end := start + 1
	for end < len(p) && p[end] != ']' {
		end++
	}
	if end == len(p) {
		return start + 1, equalFold('[', r)
	}
	for _, c := range p[start+1 : end] {
		if equalFold(c, r) {
			return end + 1, true
		}
	}
	return end + 1, false
}

func equalFold(a, b rune) bool {
	return a == b || unicode.ToLower(a) == unicode.ToLower(b)
}
