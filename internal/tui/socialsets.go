// ABOUTME: Turns a social-sets listing into chooser options.
// ABOUTME: Personal accounts come first, then team accounts grouped by team name.
package tui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

type socialSet struct {
	ID       json.RawMessage `json:"id"`
	Name     string          `json:"name"`
	Username string          `json:"username"`
	Team     *struct {
		Name string `json:"name"`
	} `json:"team"`
}

// SocialSetOptions parses a /social-sets response ({"results": [...]}).
func SocialSetOptions(raw json.RawMessage) ([]Option, error) {
	var body struct {
		Results []socialSet `json:"results"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("failed to decode social sets: %w", err)
	}

	var personal, team []socialSet
	for _, s := range body.Results {
		if s.Team == nil {
			personal = append(personal, s)
		} else {
			team = append(team, s)
		}
	}
	sort.SliceStable(team, func(i, j int) bool {
		return team[i].Team.Name < team[j].Team.Name
	})

	out := make([]Option, 0, len(body.Results))
	for _, s := range append(personal, team...) {
		out = append(out, Option{Value: rawID(s.ID), Label: label(s)})
	}
	return out, nil
}

func label(s socialSet) string {
	var b strings.Builder
	name := s.Name
	if name == "" {
		name = "Unnamed"
	}
	b.WriteString(name)
	if s.Username != "" {
		b.WriteString(" @" + s.Username)
	}
	if s.Team != nil {
		b.WriteString(" [" + s.Team.Name + "]")
	}
	return b.String()
}

func rawID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
