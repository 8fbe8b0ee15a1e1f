package contact

// ValidatedContact is a submission that passed validation. All fields are
// trimmed, non-empty, within bounds and free of control characters.
type ValidatedContact struct {
	Name           string
	Email          string
	Subject        string
	Message        string
	TurnstileToken string
}
