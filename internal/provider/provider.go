// Package provider implements model-response adapters over provider APIs.
//
// Adapters translate the session transcript into each provider's request
// shape and return plain text; the session recovers any tool intent from
// that text itself, so no adapter ever requests native tool calling.
package provider

import "fmt"

// Error reports a failed model call: non-success status or transport
// failure. The session treats it as terminal for the current turn's model
// step and never retries.
type Error struct {
	Provider string
	Status   int
	Err      error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: model call failed with status %d: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: model call failed: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
