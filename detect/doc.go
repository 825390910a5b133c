// Package detect recovers structured tool-call requests from raw model output.
//
// Strategies are tried in a fixed precedence order:
//   - JSON parsing: the whole response, then the outermost {...} span.
//   - Text patterns: prose that names a tool without valid JSON.
//   - Negative fallback tagged as json-parsing.
//
// Invariants:
//   - Pure functions: identical input yields identical output, no I/O.
//   - Malformed JSON never escapes this layer; parse failures fall through
//     to the next strategy.
//   - Result.Request is non-nil exactly when Result.IsToolCall is true.
package detect
