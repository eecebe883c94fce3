package faq

import "strings"

// KeywordSet is an insertion-ordered set of normalized keywords. Every
// member is trimmed, lower-cased, non-empty and unique. The zero value is an
// empty set.
type KeywordSet struct {
	items []string
}

// NewKeywordSet builds a set by adding each value in order, so duplicates
// and blanks in the input are dropped.
func NewKeywordSet(values ...string) KeywordSet {
	var s KeywordSet
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// NormalizeKeyword trims and lower-cases raw.
func NormalizeKeyword(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Add normalizes raw and appends it. Empty or already-present keywords are
// ignored and Add returns false.
func (s *KeywordSet) Add(raw string) bool {
	kw := NormalizeKeyword(raw)
	if kw == "" || s.Contains(kw) {
		return false
	}
	s.items = append(s.items, kw)
	return true
}

// Remove drops the keyword at position. Out-of-range positions are ignored.
func (s *KeywordSet) Remove(position int) bool {
	if position < 0 || position >= len(s.items) {
		return false
	}
	s.items = append(s.items[:position:position], s.items[position+1:]...)
	return true
}

// Contains reports whether the normalized form of raw is in the set.
func (s KeywordSet) Contains(raw string) bool {
	kw := NormalizeKeyword(raw)
	for _, item := range s.items {
		if item == kw {
			return true
		}
	}
	return false
}

// Len returns the number of keywords.
func (s KeywordSet) Len() int {
	return len(s.items)
}

// Values returns a copy of the keywords in insertion order.
func (s KeywordSet) Values() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Clone returns an independent copy of the set.
func (s KeywordSet) Clone() KeywordSet {
	return KeywordSet{items: s.Values()}
}

func (s KeywordSet) String() string {
	return strings.Join(s.items, ", ")
}
