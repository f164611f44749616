package token

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
)

var (
	defaultBuiltins = []string{
		"postgres", "redis", "rabbitmq", "mongodb", "mysql",
		"mariadb", "elasticsearch", "minio", "vault", "consul",
	}
	defaultFunctions = []string{
		"validate-config", "optimize-image", "health-check", "exec-scripts",
	}
)

// Registry classifies non-keyword barewords. It is immutable once built,
// so one instance may be shared by concurrent scans.
type Registry struct {
	builtins  map[string]struct{}
	functions map[string]struct{}
}

// NewRegistry builds a registry from the given names. Duplicates are ignored.
func NewRegistry(builtins, functions []string) *Registry {
	r := &Registry{
		builtins:  make(map[string]struct{}, len(builtins)),
		functions: make(map[string]struct{}, len(functions)),
	}
	for _, b := range builtins {
		r.builtins[b] = struct{}{}
	}
	for _, f := range functions {
		r.functions[f] = struct{}{}
	}
	return r
}

var defaultRegistry = NewRegistry(defaultBuiltins, defaultFunctions)

// DefaultRegistry returns the registry of known services and actions.
func DefaultRegistry() *Registry { return defaultRegistry }

// Extend returns a copy of r with extra names added.
func (r *Registry) Extend(builtins, functions []string) *Registry {
	if len(builtins) == 0 && len(functions) == 0 {
		return r
	}
	return NewRegistry(append(r.Builtins(), builtins...), append(r.Functions(), functions...))
}

// Classify returns the kind of a bareword.
func (r *Registry) Classify(word string) Kind {
	if IsKeyword(word) {
		return Keyword
	}
	if r == nil {
		return Ident
	}
	if _, ok := r.builtins[word]; ok {
		return Builtin
	}
	if _, ok := r.functions[word]; ok {
		return FunctionRef
	}
	return Ident
}

// Builtins returns the builtin names, sorted.
func (r *Registry) Builtins() []string { return sortedKeys(r.builtins) }

// Functions returns the action names, sorted.
func (r *Registry) Functions() []string { return sortedKeys(r.functions) }

// Fingerprint is a short stable digest of the registry contents. The driver
// cache mixes it into its keys.
func (r *Registry) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(strings.Join(r.Builtins(), "\x00")))
	h.Write([]byte{0xff})
	h.Write([]byte(strings.Join(r.Functions(), "\x00")))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
