package content

// Type is the search tab: which kind of record a search returns.
type Type string

// Content type constants.
const (
	Posts  Type = "posts"
	Series Type = "series"
	Users  Type = "users"
)

// IsValid checks if the type is one of the supported values.
func (t Type) IsValid() bool {
	return t == Posts || t == Series || t == Users
}

// Parse returns the type named by s, falling back to Posts.
func Parse(s string) Type {
	if t := Type(s); t.IsValid() {
		return t
	}
	return Posts
}

// DefaultFields returns the fields searched when the URL names none.
func DefaultFields(t Type) []string {
	switch t {
	case Users:
		return []string{"nickname", "favoriteAuthors"}
	case Series:
		return []string{"title", "description", "tags"}
	default:
		return []string{"title", "content", "tags"}
	}
}
