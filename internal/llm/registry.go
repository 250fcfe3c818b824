package llm

import "fmt"

// ProviderFactory builds a provider from its environment configuration.
type ProviderFactory func() (Provider, error)

// providers maps a configured provider name to its factory. Registration
// happens from the provider packages' init functions.
var providers = make(map[string]ProviderFactory)

// RegisterProvider makes a provider constructible under name. A later
// registration under the same name replaces the earlier one.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewProvider constructs the named provider, failing on names nothing
// registered under.
func NewProvider(name string) (Provider, error) {
	factory, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
	return factory()
}
