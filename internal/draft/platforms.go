// ABOUTME: Platform selection for drafts: explicit list, all connected, or first connected.
// ABOUTME: Also decodes existing drafts to recover enabled platforms and their posts.
package draft

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/2389-research/typefully/internal/apperr"
)

// Order is the canonical platform order used for defaulting.
var Order = []string{"x", "linkedin", "threads", "bluesky", "mastodon"}

// ConnectedPlatforms lists the platforms present on a social set, in
// canonical order. A platform counts as connected when its entry is present
// and not null or false.
func ConnectedPlatforms(socialSet json.RawMessage) ([]string, error) {
	var body struct {
		Platforms map[string]json.RawMessage `json:"platforms"`
	}
	if err := json.Unmarshal(socialSet, &body); err != nil {
		return nil, fmt.Errorf("failed to decode social set: %w", err)
	}
	var out []string
	for _, name := range Order {
		if truthy(body.Platforms[name]) {
			out = append(out, name)
		}
	}
	return out, nil
}

func truthy(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	switch string(v) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}

// Selection describes how the caller asked for platforms.
type Selection struct {
	Explicit *string // --platform value, comma-separated; nil when not given
	All      bool
}

// Validate rejects combinations that need no network call to detect.
func (s Selection) Validate() error {
	if s.Explicit == nil {
		return nil
	}
	if s.All {
		return apperr.New("Cannot use both --all and --platform flags")
	}
	if len(ParseList(*s.Explicit)) == 0 {
		return apperr.New("--platform requires at least one platform")
	}
	return nil
}

// Resolve picks platform names. connected is only called when the selection
// is not explicit.
func (s Selection) Resolve(connected func() ([]string, error)) ([]string, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.Explicit != nil {
		return ParseList(*s.Explicit), nil
	}

	names, err := connected()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		if s.All {
			return nil, apperr.New("No connected platforms found. Connect a platform at typefully.com")
		}
		return nil, apperr.New("No connected platforms found. Connect a platform at typefully.com or specify --platform")
	}
	if s.All {
		return names, nil
	}
	return names[:1], nil
}

type existingPlatform struct {
	Enabled bool              `json:"enabled"`
	Posts   []json.RawMessage `json:"posts"`
}

// Existing is the subset of a fetched draft needed for updates. Platform
// order follows the server response.
type Existing struct {
	Platforms *orderedmap.OrderedMap[string, existingPlatform] `json:"platforms"`
}

// DecodeExisting parses a draft returned by the API.
func DecodeExisting(raw json.RawMessage) (*Existing, error) {
	var d Existing
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &d, nil
}

// EnabledPlatforms returns enabled platform names in response order.
func (e *Existing) EnabledPlatforms() []string {
	var out []string
	if e == nil || e.Platforms == nil {
		return out
	}
	for pair := e.Platforms.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Enabled {
			out = append(out, pair.Key)
		}
	}
	return out
}

// FirstEnabledPosts returns the posts of the first enabled platform that has any.
func (e *Existing) FirstEnabledPosts() []Post {
	if e == nil || e.Platforms == nil {
		return nil
	}
	for pair := e.Platforms.Oldest(); pair != nil; pair = pair.Next() {
		if !pair.Value.Enabled || pair.Value.Posts == nil {
			continue
		}
		posts := make([]Post, len(pair.Value.Posts))
		for i, raw := range pair.Value.Posts {
			posts[i] = Post{Raw: raw}
		}
		return posts
	}
	return nil
}

// Append returns the existing posts plus one new post. The new text is not
// thread-split.
func Append(existing []Post, text string, mediaIDs []string) []Post {
	out := make([]Post, 0, len(existing)+1)
	out = append(out, existing...)
	p := Post{Text: text}
	if len(mediaIDs) > 0 {
		p.MediaIDs = mediaIDs
	}
	return append(out, p)
}
