package disasm

import "strings"

// stripGenericParams reduces a generic type-parameter token of the form
// "T extends java.lang.Object & java.io.Serializable" to just "T", since
// only the parameter's name matters once its bound has been erased.
func stripGenericParams(token string) string {
	token = strings.TrimSpace(token)
	if idx := strings.Index(token, " extends "); idx >= 0 {
		return strings.TrimSpace(token[:idx])
	}
	if idx := strings.Index(token, " super "); idx >= 0 {
		return strings.TrimSpace(token[:idx])
	}
	return token
}

// stripGenericSuffix removes a trailing "<...>" type-argument list from a
// type name, e.g. "List<String>" -> "List". Everything from the first '<'
// on is dropped, so nested lists such as "Map<String,List<Integer>>" also
// reduce to the bare name ("Map").
func stripGenericSuffix(name string) string {
	idx := strings.IndexByte(name, '<')
	if idx < 0 {
		return name
	}
	return name[:idx]
}

// splitGenericList splits a comma-separated list of generic parameters,
// respecting nested angle brackets so "Map<K,V>, T" splits into two
// entries rather than three.
func splitGenericList(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if start < len(s) {
		rest := strings.TrimSpace(s[start:])
		if rest != "" {
			out = append(out, rest)
		}
	}
	return out
}
