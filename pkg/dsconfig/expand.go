package dsconfig

import (
	"os"
	"strings"
)

func isVarnameChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// strictExpand replaces ${var} and $var like os.Expand, except that a
// variable unknown to lookup is left untouched instead of being replaced
// by an empty string. This keeps a literal "$" in paths or patterns intact.
func strictExpand(s string, lookup func(string) (string, bool)) string {
	var b strings.Builder

	for i := 0; i < len(s); i++ {
		if s[i] != '$' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}

		var name string

		end := i + 1

		if s[i+1] == '{' {
			closing := strings.IndexByte(s[i+2:], '}')
			if closing < 0 {
				b.WriteByte(s[i])
				continue
			}

			name = s[i+2 : i+2+closing]
			end = i + 2 + closing + 1
		} else {
			for end < len(s) && isVarnameChar(s[end]) {
				end++
			}

			name = s[i+1 : end]
		}

		val, ok := "", false
		if name != "" {
			val, ok = lookup(name)
		}

		if !ok {
			b.WriteByte(s[i])
			continue
		}

		b.WriteString(val)

		i = end - 1
	}

	return b.String()
}

func expandEnv(s string) string {
	return strictExpand(s, os.LookupEnv)
}
