// ABOUTME: Command-line tokenizer driven by a per-command option schema.
// ABOUTME: Normalizes kebab/snake spellings and decodes results into typed structs.
package args

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/2389-research/typefully/internal/apperr"
)

// Kind is the value type an option accepts.
type Kind int

const (
	String Kind = iota
	Bool
	Int
)

// Option declares one accepted option. Name is the canonical snake_case key.
// Aliases are either long names ("scratchpad") or literal short flags ("-f").
type Option struct {
	Name    string
	Kind    Kind
	Aliases []string
}

// Flag returns the primary spelling, e.g. "--social-set-id".
func (o Option) Flag() string {
	return "--" + strings.ReplaceAll(o.Name, "_", "-")
}

// Display is the spelling used in error messages, listing the snake_case
// form and long aliases when they differ from the primary flag.
func (o Option) Display() string {
	var alts []string
	if strings.Contains(o.Name, "_") {
		alts = append(alts, "--"+o.Name)
	}
	for _, a := range o.Aliases {
		if isShort(a) {
			continue
		}
		alts = append(alts, "--"+strings.ReplaceAll(a, "_", "-"))
	}
	if len(alts) == 0 {
		return o.Flag()
	}
	return fmt.Sprintf("%s (or %s)", o.Flag(), strings.Join(alts, ", "))
}

// Schema is the set of options one command accepts.
type Schema []Option

// Global options are accepted by every command.
var Global = Schema{
	{Name: "social_set_id", Kind: String},
	{Name: "use_default", Kind: Bool},
	{Name: "help", Kind: Bool, Aliases: []string{"-h"}},
}

// With returns the schema extended with the global options.
func (s Schema) With(extra Schema) Schema {
	out := make(Schema, 0, len(s)+len(extra))
	out = append(out, s...)
	return append(out, extra...)
}

// Lookup finds an option by canonical name.
func (s Schema) Lookup(name string) (Option, bool) {
	for _, o := range s {
		if o.Name == name {
			return o, true
		}
	}
	return Option{}, false
}

// Display is Lookup(name).Display() with a fallback for unknown names.
func (s Schema) Display(name string) string {
	if o, ok := s.Lookup(name); ok {
		return o.Display()
	}
	return "--" + strings.ReplaceAll(name, "_", "-")
}

type index struct {
	long  map[string]Option
	short map[string]Option
}

func (s Schema) index() index {
	idx := index{long: map[string]Option{}, short: map[string]Option{}}
	for _, o := range s {
		idx.long[o.Name] = o
		for _, a := range o.Aliases {
			if isShort(a) {
				idx.short[a] = o
			} else {
				idx.long[normalize(a)] = o
			}
		}
	}
	return idx
}

// looksLikeOption reports whether a token would be read as an option rather
// than a value. Values such as "-created_at" are allowed.
func (idx index) looksLikeOption(tok string) bool {
	if strings.HasPrefix(tok, "--") {
		return true
	}
	_, ok := idx.short[tok]
	return ok
}

func isShort(a string) bool {
	return strings.HasPrefix(a, "-") && !strings.HasPrefix(a, "--")
}

func normalize(name string) string {
	return strings.ReplaceAll(strings.TrimLeft(name, "-"), "-", "_")
}

// Parsed is the tokenizer output.
type Parsed struct {
	Positional []string
	Options    map[string]any
	schema     Schema
}

// Parse splits tokens into positionals and options. Parsing is pure: it never
// reads config or touches the network.
func Parse(tokens []string, schema Schema) (*Parsed, error) {
	idx := schema.index()
	p := &Parsed{Options: map[string]any{}, schema: schema}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		if tok == "--" {
			p.Positional = append(p.Positional, tokens[i+1:]...)
			break
		}

		var (
			opt       Option
			ok        bool
			inline    string
			hasInline bool
		)
		switch {
		case strings.HasPrefix(tok, "--"):
			name := tok[2:]
			if eq := strings.IndexByte(name, '='); eq >= 0 {
				name, inline, hasInline = name[:eq], name[eq+1:], true
			}
			opt, ok = idx.long[normalize(name)]
			if !ok {
				return nil, apperr.Newf("Unknown option: --%s", name).
					With("hint", "Use --help for usage.")
			}
		default:
			if opt, ok = idx.short[tok]; !ok {
				p.Positional = append(p.Positional, tok)
				continue
			}
		}

		if opt.Kind == Bool {
			val := true
			if hasInline {
				b, err := strconv.ParseBool(inline)
				if err != nil {
					return nil, apperr.Newf("%s does not take a value", opt.Display())
				}
				val = b
			}
			p.Options[opt.Name] = val
			continue
		}

		value := inline
		if !hasInline {
			if i+1 >= len(tokens) || idx.looksLikeOption(tokens[i+1]) {
				return nil, apperr.Newf("%s requires a value", opt.Display())
			}
			i++
			value = tokens[i]
		}

		if opt.Kind == Int {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, apperr.Newf("%s must be an integer", opt.Display())
			}
			p.Options[opt.Name] = n
			continue
		}
		p.Options[opt.Name] = value
	}

	return p, nil
}

// Has reports whether an option was supplied.
func (p *Parsed) Has(name string) bool {
	_, ok := p.Options[name]
	return ok
}

// String returns an option value and whether it was supplied.
func (p *Parsed) String(name string) (string, bool) {
	v, ok := p.Options[name].(string)
	return v, ok
}

// Bool returns a boolean option, false when absent.
func (p *Parsed) Bool(name string) bool {
	v, _ := p.Options[name].(bool)
	return v
}

// Display names an option of the schema this result was parsed with.
func (p *Parsed) Display(name string) string {
	return p.schema.Display(name)
}

// Decode copies options into a struct tagged with `mapstructure:"name"`.
// Pointer fields stay nil for absent options, so an explicit empty value can
// be told apart from an omitted one.
func (p *Parsed) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ZeroFields:       false,
	})
	if err != nil {
		return fmt.Errorf("failed to build option decoder: %w", err)
	}
	if err := dec.Decode(p.Options); err != nil {
		return fmt.Errorf("failed to decode options: %w", err)
	}
	return nil
}
