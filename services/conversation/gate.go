package conversation

import "errors"

// ErrUnauthorized means a client tried to enter a provider-only flow.
var ErrUnauthorized = errors.New("not authorized")

// ProviderGate is the single place the provider identity is compared.
type ProviderGate struct {
	providerID string
}

func NewProviderGate(providerID string) ProviderGate {
	return ProviderGate{providerID: providerID}
}

func (g ProviderGate) Authorize(clientID string) error {
	if g.providerID == "" || clientID != g.providerID {
		return ErrUnauthorized
	}
	return nil
}
