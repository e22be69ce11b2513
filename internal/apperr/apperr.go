// ABOUTME: Structured CLI error carrying a message plus ordered detail fields.
// ABOUTME: Serializes to the {"error": ..., <details>} envelope written on failure.
package apperr

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Error is a user-facing failure. Details are emitted after the message in
// insertion order.
type Error struct {
	Message string
	Details *orderedmap.OrderedMap[string, any]
}

// New builds an Error from a message and alternating key/value pairs.
// A trailing key without a value is ignored.
func New(msg string, kv ...any) *Error {
	e := &Error{Message: msg, Details: orderedmap.New[string, any]()}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		e.Details.Set(key, kv[i+1])
	}
	return e
}

// Newf is New with a formatted message and no details.
func Newf(format string, args ...any) *Error {
	return New(fmt.Sprintf(format, args...))
}

func (e *Error) Error() string {
	return e.Message
}

// With returns the error after adding a detail field.
func (e *Error) With(key string, value any) *Error {
	if e.Details == nil {
		e.Details = orderedmap.New[string, any]()
	}
	e.Details.Set(key, value)
	return e
}

// Detail returns a detail value by key.
func (e *Error) Detail(key string) (any, bool) {
	if e.Details == nil {
		return nil, false
	}
	return e.Details.Get(key)
}

// MarshalJSON writes the envelope with "error" first.
func (e *Error) MarshalJSON() ([]byte, error) {
	out := orderedmap.New[string, any]()
	out.Set("error", e.Message)
	if e.Details != nil {
		for pair := e.Details.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Key == "error" {
				continue
			}
			out.Set(pair.Key, pair.Value)
		}
	}
	return json.Marshal(out)
}
