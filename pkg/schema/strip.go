package schema

import "strings"

// StripComments removes line and block comments from protobuf source
// text. The scan is string-literal aware, so comment markers inside
// quoted strings are left intact. Block comments are replaced by a
// single space (with any newlines they contained preserved) so adjacent
// tokens do not merge and line structure survives.
func StripComments(src string) string {
	var sb strings.Builder
	sb.Grow(len(src))

	i := 0
	n := len(src)
	for i < n {
		c := src[i]

		switch {
		case c == '"' || c == '\'':
			// String literal: copy verbatim through the closing quote
			quote := c
			sb.WriteByte(c)
			i++
			for i < n {
				sb.WriteByte(src[i])
				if src[i] == '\\' && i+1 < n {
					i++
					sb.WriteByte(src[i])
					i++
					continue
				}
				if src[i] == quote {
					i++
					break
				}
				i++
			}

		case c == '/' && i+1 < n && src[i+1] == '/':
			// Line comment: drop through end of line, keep the newline
			i += 2
			for i < n && src[i] != '\n' {
				i++
			}

		case c == '/' && i+1 < n && src[i+1] == '*':
			// Block comment: drop, keep contained newlines, leave one space
			i += 2
			sb.WriteByte(' ')
			for i < n {
				if src[i] == '*' && i+1 < n && src[i+1] == '/' {
					i += 2
					break
				}
				if src[i] == '\n' {
					sb.WriteByte('\n')
				}
				i++
			}

		default:
			sb.WriteByte(c)
			i++
		}
	}

	return sb.String()
}
