package faq

import (
	"strings"

	"github.com/unibot/cli/internal/api"
)

// Entry is one FAQ as cached on the client. Its identity is its position in
// the most recent server listing.
type Entry struct {
	Question string
	Answer   string
	Keywords KeywordSet
}

// Clone returns a copy that shares no memory with e.
func (e Entry) Clone() Entry {
	return Entry{
		Question: e.Question,
		Answer:   e.Answer,
		Keywords: e.Keywords.Clone(),
	}
}

func entryFromAPI(f api.FAQ) Entry {
	return Entry{
		Question: strings.TrimSpace(f.Question),
		Answer:   strings.TrimSpace(f.Answer),
		Keywords: NewKeywordSet(f.Keywords...),
	}
}

func (e Entry) toInput() api.FAQInput {
	return api.FAQInput{
		Question: strings.TrimSpace(e.Question),
		Answer:   strings.TrimSpace(e.Answer),
		Keywords: e.Keywords.Values(),
	}
}

func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}
