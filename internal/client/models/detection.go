package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DetectionResult is the backend's verdict for one submitted file. Results
// are never mutated; a re-submission produces a new one.
type DetectionResult struct {
	Filename  string  `json:"filename"`
	Sensitive bool    `json:"sensitive"`
	Matches   Matches `json:"matches,omitempty"`
	Stored    bool    `json:"stored"`
	URL       string  `json:"url,omitempty"`
}

// Matches lists the sensitive fragments found in a file. The backend sends
// either plain strings or [label, value] pairs; pairs are flattened to
// "label: value".
type Matches []string

func (m *Matches) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("matches: %w", err)
	}

	out := make(Matches, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		var pair []string
		if err := json.Unmarshal(item, &pair); err != nil {
			return fmt.Errorf("matches: unsupported item %s", string(item))
		}
		switch len(pair) {
		case 0:
			continue
		case 1:
			out = append(out, pair[0])
		default:
			out = append(out, pair[0]+": "+pair[len(pair)-1])
		}
	}
	*m = out
	return nil
}

// Summary renders the matches for a review prompt.
func (m Matches) Summary() string {
	if len(m) == 0 {
		return "Text hidden"
	}
	return strings.Join(m, "\n")
}

// GalleryItem is a server-stored result shown in a preview surface. It is
// deleted server-side when the surface closes.
type GalleryItem struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Item converts a stored result into a gallery item.
func (r DetectionResult) Item() GalleryItem {
	return GalleryItem{URL: r.URL, Filename: r.Filename}
}

// StoredImage is one entry of the backend's stored-images listing.
type StoredImage struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
