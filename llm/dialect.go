package llm

import (
	"fmt"
	"sort"
	"sync"
)

// Dialect maps CompletionRequest and CompletionResponse to a provider's
// HTTP format.
type Dialect interface {
	// Name returns the registry key (e.g. "openai").
	Name() string

	// ChatPath is the chat completion endpoint, relative to the base URL.
	ChatPath() string

	// BuildRequest returns the JSON request body.
	BuildRequest(req CompletionRequest) (any, error)

	// ParseResponse decodes the provider's response body.
	ParseResponse(body []byte) (*CompletionResponse, error)
}

var (
	dialectsMu sync.RWMutex
	dialects   = map[string]Dialect{}
)

// RegisterDialect adds d under name. Dialect packages call it from init.
func RegisterDialect(name string, d Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[name] = d
}

// GetDialect looks up a registered dialect.
func GetDialect(name string) (Dialect, error) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[name]
	if !ok {
		return nil, fmt.Errorf("llm: unknown dialect %q (forgot to import driver?)", name)
	}
	return d, nil
}

// Dialects returns the registered dialect names, sorted.
func Dialects() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
