package domain

// SearchField is where a search query matched, best first
type SearchField int

const (
	MatchTitle SearchField = iota
	MatchAuthor
	MatchDescription
	MatchStatus
	MatchMixed
)

// String returns the field name
func (f SearchField) String() string {
	switch f {
	case MatchTitle:
		return "title"
	case MatchAuthor:
		return "author"
	case MatchDescription:
		return "description"
	case MatchStatus:
		return "status"
	default:
		return "mixed"
	}
}

// SearchHit is one ranked match
type SearchHit struct {
	Field       SearchField       `json:"field"`
	PullRequest CachedPullRequest `json:"pull_request"`
}

// SearchResult holds hits ordered by rank
type SearchResult struct {
	Hits  []SearchHit `json:"hits"`
	Query string      `json:"query"`
}

// MarshalText renders the field name in JSON output
func (f SearchField) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}
