package auth

// Profile represents a normalized identity fetched from an external
// OAuth provider after a successful code exchange. It contains facts
// only, no decisions.
type Profile struct {
	Provider    string // e.g. "google"
	ProviderID  string // provider-scoped stable subject identifier (sub)
	DisplayName string // human-readable name as reported by the provider
	Email       string // email reported by the provider, may be empty
}
