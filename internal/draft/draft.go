// ABOUTME: Request body construction for draft create and update calls.
// ABOUTME: Splits thread text, attaches media, and fans posts out across platforms.
package draft

import (
	"encoding/json"
	"regexp"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Post is one entry of a platform's post list. Raw, when set, is emitted
// verbatim so posts copied from an existing draft keep every field.
type Post struct {
	Text     string
	MediaIDs []string
	Raw      json.RawMessage
}

// MarshalJSON implements json.Marshaler.
func (p Post) MarshalJSON() ([]byte, error) {
	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	type wire struct {
		Text     string   `json:"text"`
		MediaIDs []string `json:"media_ids,omitempty"`
	}
	return json.Marshal(wire{Text: p.Text, MediaIDs: p.MediaIDs})
}

// Settings holds platform-specific options. Only X supports any.
type Settings struct {
	ReplyToURL  string `json:"reply_to_url,omitempty"`
	CommunityID string `json:"community_id,omitempty"`
}

// Empty reports whether no setting is set.
func (s Settings) Empty() bool {
	return s.ReplyToURL == "" && s.CommunityID == ""
}

// Platform is the per-platform block of a draft body.
type Platform struct {
	Enabled  bool      `json:"enabled"`
	Posts    []Post    `json:"posts"`
	Settings *Settings `json:"settings,omitempty"`
}

// Platforms keeps insertion order so the JSON body lists platforms in the
// order they were selected.
type Platforms = orderedmap.OrderedMap[string, Platform]

// Payload is the body for POST and PATCH on a draft. Nil or zero fields are
// omitted; a non-nil empty Tags clears the draft's tags.
type Payload struct {
	Platforms      *Platforms `json:"platforms,omitempty"`
	DraftTitle     string     `json:"draft_title,omitempty"`
	PublishAt      string     `json:"publish_at,omitempty"`
	Tags           *[]string  `json:"tags,omitempty"`
	Share          bool       `json:"share,omitempty"`
	ScratchpadText string     `json:"scratchpad_text,omitempty"`
}

// Empty reports whether the payload would change nothing.
func (p Payload) Empty() bool {
	return p.Platforms == nil && p.DraftTitle == "" && p.PublishAt == "" &&
		p.Tags == nil && !p.Share && p.ScratchpadText == ""
}

var separator = regexp.MustCompile(`(?m)(?:^|\r?\n)---\r?(?:\n|$)`)

// SplitThread splits text on lines consisting solely of "---". Parts that
// are blank after trimming are dropped.
func SplitThread(text string) []string {
	var out []string
	for _, part := range separator.Split(text, -1) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// ParseList splits a comma-separated value, trimming entries and dropping
// empty ones. The result is never nil.
func ParseList(csv string) []string {
	out := []string{}
	for _, item := range strings.Split(csv, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// BuildPosts turns thread parts into posts. Media attaches to the first post.
func BuildPosts(parts []string, mediaIDs []string) []Post {
	posts := make([]Post, len(parts))
	for i, text := range parts {
		posts[i] = Post{Text: text}
		if i == 0 && len(mediaIDs) > 0 {
			posts[i].MediaIDs = mediaIDs
		}
	}
	return posts
}

// Fanout enables every named platform with the same posts. X settings are
// attached to the x block only, and only when non-empty.
func Fanout(names []string, posts []Post, x Settings) *Platforms {
	out := orderedmap.New[string, Platform]()
	for _, name := range names {
		block := Platform{Enabled: true, Posts: posts}
		if name == "x" && !x.Empty() {
			s := x
			block.Settings = &s
		}
		out.Set(name, block)
	}
	return out
}
