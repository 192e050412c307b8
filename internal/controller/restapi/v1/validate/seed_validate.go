package validate

const (
	// MaxBodySize bounds a create/update request, pictures included.
	MaxBodySize = 10 * 1024 * 1024

	DefaultPageLimit = 25
	MaxPageLimit     = 100
)

