package domain

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

// PageRequest asks for up to Limit items after Cursor
type PageRequest struct {
	Cursor string
	Limit  int
}

// EffectiveLimit clamps Limit into [1, MaxPageLimit]
func (p PageRequest) EffectiveLimit() int {
	switch {
	case p.Limit <= 0:
		return DefaultPageLimit
	case p.Limit > MaxPageLimit:
		return MaxPageLimit
	default:
		return p.Limit
	}
}
