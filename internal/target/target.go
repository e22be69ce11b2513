// ABOUTME: Reconciles positional identifiers, the social-set flag, and the configured default.
// ABOUTME: Refuses to silently apply the default when a lone positional is ambiguous.
package target

import (
	"fmt"

	"github.com/2389-research/typefully/internal/apperr"
)

// SetupHint is shown when no social set can be resolved.
const SetupHint = "Run: typefully config:set-default to set a default, or provide it as an argument"

// Inputs are the identifier sources available to a command.
type Inputs struct {
	Command    string
	Positional []string
	Flag       string // --social-set-id, empty when absent
	Default    string // configured default, empty when none
	UseDefault bool
}

// Pair is a resolved social set plus one secondary identifier.
type Pair struct {
	SocialSetID string
	ID          string
	Rest        []string
}

func conflict(positional, flag string) error {
	return apperr.New("Conflicting social_set_id values",
		"positional", positional,
		"flag", flag)
}

func required() error {
	return apperr.New("social_set_id is required", "hint", SetupHint)
}

// Single resolves commands shaped "<cmd> [social_set_id]". The first
// positional, when present, is the social set.
func Single(in Inputs) (string, []string, error) {
	if len(in.Positional) > 0 {
		p := in.Positional[0]
		if in.Flag != "" && in.Flag != p {
			return "", nil, conflict(p, in.Flag)
		}
		return p, in.Positional[1:], nil
	}
	id, err := FlagOrDefault(in)
	return id, nil, err
}

// FlagOrDefault resolves the social set for commands whose positionals are
// not identifiers.
func FlagOrDefault(in Inputs) (string, error) {
	if in.Flag != "" {
		return in.Flag, nil
	}
	if in.Default != "" {
		return in.Default, nil
	}
	return "", required()
}

// Resolve handles "<cmd> [social_set_id] <secondary>". With gated set, a lone
// positional only falls back to the configured default when UseDefault is on.
func Resolve(in Inputs, secondary string, gated bool) (Pair, error) {
	switch len(in.Positional) {
	case 0:
		return Pair{}, apperr.Newf("%s is required", secondary)

	case 1:
		id := in.Positional[0]
		if in.Flag != "" {
			return Pair{SocialSetID: in.Flag, ID: id}, nil
		}
		if in.Default == "" {
			if gated {
				return Pair{}, apperr.Newf("%s is required", secondary).With("hint", fmt.Sprintf(
					"Provide both social_set_id and %s, or set a default social set with: typefully config:set-default",
					secondary))
			}
			return Pair{}, required()
		}
		if gated && !in.UseDefault {
			return Pair{}, apperr.New(fmt.Sprintf("Ambiguous arguments for %s", in.Command),
				"hint", fmt.Sprintf(
					"A default social set (%s) is configured. To use it with %s %s, pass --use-default. "+
						"Otherwise pass both ids: %s <social_set_id> <%s>, or --social-set-id <id>.",
					in.Default, secondary, id, in.Command, secondary))
		}
		return Pair{SocialSetID: in.Default, ID: id}, nil

	default:
		p := in.Positional[0]
		if in.Flag != "" && in.Flag != p {
			return Pair{}, conflict(p, in.Flag)
		}
		return Pair{SocialSetID: p, ID: in.Positional[1], Rest: in.Positional[2:]}, nil
	}
}
