package shell

import "regexp"

var tokenPattern = regexp.MustCompile(`"([^"]*)"|'([^']*)'|\S+`)

// Tokenize splits line on whitespace. A "double" or 'single' quoted span
// is one token with its quotes removed.
func Tokenize(line string) []string {
	matches := tokenPattern.FindAllStringSubmatchIndex(line, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		switch {
		case m[2] >= 0:
			tokens = append(tokens, line[m[2]:m[3]])
		case m[4] >= 0:
			tokens = append(tokens, line[m[4]:m[5]])
		default:
			tokens = append(tokens, line[m[0]:m[1]])
		}
	}
	return tokens
}
