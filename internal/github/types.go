package github

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ContentLinks holds the hypermedia links attached to a contents entry.
type ContentLinks struct {
	Self string `json:"self"`
	Git  string `json:"git"`
	HTML string `json:"html"`
}

// ContentEntry is one record from the repository contents API. The proxy
// does not interpret these fields; they are decoded at the origin boundary
// and passed through unchanged.
type ContentEntry struct {
	Name        string       `json:"name"`
	Path        string       `json:"path"`
	SHA         string       `json:"sha"`
	Size        int64        `json:"size"`
	URL         string       `json:"url"`
	HTMLURL     string       `json:"html_url"`
	GitURL      string       `json:"git_url"`
	DownloadURL *string      `json:"download_url"`
	Type        string       `json:"type"`
	Links       ContentLinks `json:"_links"`
}

// ContentResult is what the origin returns for a lesson path: a single
// entry for file-like paths, an ordered listing for directory-like paths.
// The two shapes marshal back to exactly what was received (object vs
// array), so callers can treat the value as an opaque passthrough.
type ContentResult struct {
	entry   *ContentEntry
	entries []ContentEntry
	many    bool
}

// Single wraps one entry.
func Single(e ContentEntry) *ContentResult {
	return &ContentResult{entry: &e}
}

// Many wraps an ordered listing. The slice is used as-is.
func Many(entries []ContentEntry) *ContentResult {
	return &ContentResult{entries: entries, many: true}
}

// Entry returns the single entry, if this result holds one.
func (r *ContentResult) Entry() (*ContentEntry, bool) {
	return r.entry, r.entry != nil
}

// Entries returns the listing, if this result holds one. A zero-length
// listing returns ok=true.
func (r *ContentResult) Entries() ([]ContentEntry, bool) {
	return r.entries, r.many
}

// IsEmpty reports whether the origin returned nothing usable: a JSON null
// or a zero-length listing. A single entry is never empty, even when its
// fields are blank.
func (r *ContentResult) IsEmpty() bool {
	if r == nil {
		return true
	}
	if r.many {
		return len(r.entries) == 0
	}
	return r.entry == nil
}

// UnmarshalJSON picks the shape from the leading token: '[' decodes a
// listing, '{' a single entry, and a literal null leaves the result empty.
func (r *ContentResult) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = ContentResult{}
		return nil
	}

	switch trimmed[0] {
	case '[':
		var entries []ContentEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return err
		}
		*r = ContentResult{entries: entries, many: true}
		return nil
	case '{':
		var entry ContentEntry
		if err := json.Unmarshal(trimmed, &entry); err != nil {
			return err
		}
		*r = ContentResult{entry: &entry}
		return nil
	default:
		return fmt.Errorf("content result: unexpected JSON token %q", trimmed[0])
	}
}

// MarshalJSON emits the same shape that was decoded.
func (r ContentResult) MarshalJSON() ([]byte, error) {
	if r.many {
		if r.entries == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(r.entries)
	}
	if r.entry != nil {
		return json.Marshal(r.entry)
	}
	return []byte("null"), nil
}
