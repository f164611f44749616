package token

// keywordList повторяет список подсветки, включая дубль "workspace".
var keywordList = []string{
	"app", "run", "needs", "type", "port", "mode", "env", "workspace",
	"build", "scaling", "health", "version", "name", "description", "workspace",
}

var keywords = func() map[string]struct{} {
	m := make(map[string]struct{}, len(keywordList))
	for _, kw := range keywordList {
		m[kw] = struct{}{}
	}
	return m
}()

// IsKeyword reports whether word is a reserved keyword.
// Ключевые слова регистрозависимые.
func IsKeyword(word string) bool {
	_, ok := keywords[word]
	return ok
}

// Keywords returns the distinct reserved keywords in declaration order.
func Keywords() []string {
	seen := make(map[string]bool, len(keywordList))
	out := make([]string, 0, len(keywordList))
	for _, kw := range keywordList {
		if !seen[kw] {
			seen[kw] = true
			out = append(out, kw)
		}
	}
	return out
}
