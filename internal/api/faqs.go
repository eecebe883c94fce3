package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
)

// --- FAQ Methods ---

// ListFAQs fetches the full FAQ collection in server order.
func (c *Client) ListFAQs(ctx context.Context) ([]FAQ, error) {
	data, err := c.get(ctx, "/admin/faqs")
	if err != nil {
		return nil, err
	}
	items, err := decodeFAQCollection(data)
	if err != nil {
		return nil, &DecodeError{Method: http.MethodGet, Path: "/admin/faqs", Err: err}
	}
	return items, nil
}

// CreateFAQ appends a new entry on the server.
func (c *Client) CreateFAQ(ctx context.Context, input FAQInput) error {
	_, err := c.post(ctx, "/admin/faqs", normalizeInput(input))
	return err
}

// UpdateFAQ replaces the entry at position index.
func (c *Client) UpdateFAQ(ctx context.Context, index int, input FAQInput) error {
	_, err := c.put(ctx, fmt.Sprintf("/admin/faqs/%d", index), normalizeInput(input))
	return err
}

// DeleteFAQ removes the entry at position index.
func (c *Client) DeleteFAQ(ctx context.Context, index int) error {
	_, err := c.del(ctx, fmt.Sprintf("/admin/faqs/%d", index))
	return err
}

// normalizeInput keeps keywords encoded as [] rather than null.
func normalizeInput(input FAQInput) FAQInput {
	if input.Keywords == nil {
		input.Keywords = []string{}
	}
	return input
}

// decodeFAQCollection accepts the shapes the admin endpoint has been seen
// to return: a JSON array, an object keyed by position, or null for an
// empty store. Object values are ordered the way a browser enumerates
// them: integer keys ascending, then the remaining keys in document order.
func decodeFAQCollection(data []byte) ([]FAQ, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []FAQ{}, nil
	}

	switch trimmed[0] {
	case '[':
		var items []FAQ
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return normalizeFAQs(items), nil
	case '{':
		items, err := decodeKeyedFAQs(trimmed)
		if err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return normalizeFAQs(items), nil
	default:
		return nil, fmt.Errorf("decode response: unexpected payload %q", truncate(string(trimmed), 32))
	}
}

type keyedFAQ struct {
	key   string
	index uint64
	isIdx bool
	pos   int
	faq   FAQ
}

func decodeKeyedFAQs(data []byte) ([]FAQ, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var entries []keyedFAQ
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", tok)
		}
		var faq FAQ
		if err := dec.Decode(&faq); err != nil {
			return nil, fmt.Errorf("entry %q: %w", key, err)
		}
		idx, isIdx := arrayIndexKey(key)
		entries = append(entries, keyedFAQ{key: key, index: idx, isIdx: isIdx, pos: len(entries), faq: faq})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.isIdx && b.isIdx:
			return a.index < b.index
		case a.isIdx != b.isIdx:
			return a.isIdx
		default:
			return a.pos < b.pos
		}
	})

	out := make([]FAQ, len(entries))
	for i, e := range entries {
		out[i] = e.faq
	}
	return out, nil
}

// arrayIndexKey reports whether key is a canonical non-negative integer.
func arrayIndexKey(key string) (uint64, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == 1<<32-1 {
		return 0, false
	}
	return n, true
}

func normalizeFAQs(items []FAQ) []FAQ {
	if items == nil {
		return []FAQ{}
	}
	for i := range items {
		if items[i].Keywords == nil {
			items[i].Keywords = []string{}
		}
	}
	return items
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
