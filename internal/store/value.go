package store

// Kind identifies which variant of the Value union a key holds.
type Kind int

const (
	KindString Kind = iota
	KindList
	KindSet
	KindHash
	KindSortedSet
)

// String returns the name TYPE reports for the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	case KindHash:
		return "hash"
	case KindSortedSet:
		return "zset"
	default:
		return "none"
	}
}

// IsContainer reports whether values of this kind are removed from the
// keyspace once they hold no elements.
func (k Kind) IsContainer() bool {
	return k != KindString
}

// Value is the closed union of everything a key can hold: *String, *List,
// *Set, *Hash or *SortedSet.
type Value interface {
	Kind() Kind
	// Len is the element count for containers and the byte length for strings.
	Len() int

	sealed()
}

func (*String) sealed()    {}
func (*List) sealed()      {}
func (*Set) sealed()       {}
func (*Hash) sealed()      {}
func (*SortedSet) sealed() {}

// String is a scalar text value.
type String struct {
	val string
}

// NewString creates a String holding s.
func NewString(s string) *String {
	return &String{val: s}
}

func (s *String) Kind() Kind { return KindString }

func (s *String) Len() int { return len(s.val) }

// Get returns the stored text.
func (s *String) Get() string { return s.val }

// Set replaces the stored text.
func (s *String) Set(v string) { s.val = v }

// Append appends v and returns the new length.
func (s *String) Append(v string) int {
	s.val += v
	return len(s.val)
}
