package core

// Credentials carries the per-request API keys needed by a run. It is passed
// by value through the crew into model factories and tool contexts and is
// never written to process-wide state.
type Credentials struct {
	ModelAPIKey  string
	SearchAPIKey string
}

// String redacts both keys so credentials can be logged safely.
func (c Credentials) String() string {
	return "Credentials{model:" + redact(c.ModelAPIKey) + ", search:" + redact(c.SearchAPIKey) + "}"
}

func redact(s string) string {
	if s == "" {
		return "<unset>"
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + "****" + s[len(s)-2:]
}
