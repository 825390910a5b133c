package detect

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// Method identifies which strategy produced a detection outcome.
type Method string

const (
	MethodJSONParsing    Method = "json-parsing"
	MethodTextAnalysis   Method = "text-analysis"
	MethodNativeToolCall Method = "native-tool-call"
)

// Request is a structured tool invocation recovered from model output.
type Request struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

// Result is the outcome of running detection over one model response.
// Raw always carries the verbatim input, whatever the outcome, so callers
// can re-prompt or log the original text.
type Result struct {
	IsToolCall bool
	Request    *Request
	Raw        string
	Method     Method
}

// DetectToolCall classifies a model response. JSON parsing wins over text
// patterns when both would match; a response matching neither is negative
// and tagged json-parsing.
func DetectToolCall(text string) Result {
	if res := FromStructuredText(text); res.IsToolCall {
		return res
	}
	if res := FromTextPatterns(text); res.IsToolCall {
		return res
	}
	return Result{Raw: text, Method: MethodJSONParsing}
}

// candidateKind tags the outcome of validating one JSON candidate span.
type candidateKind int

const (
	candidateNotJSON candidateKind = iota
	candidateWrongShape
	candidateToolCall
)

// parsedCandidate carries the validator verdict for a JSON span.
type parsedCandidate struct {
	kind candidateKind
	name string
	args map[string]any
}

// FromStructuredText attempts JSON-based detection: first the entire trimmed
// input, then the greedy outermost {...} span (first '{' to last '}') when
// the response embeds the object in prose.
func FromStructuredText(text string) Result {
	trimmed := strings.TrimSpace(text)

	if c := validateCandidate(trimmed); c.kind == candidateToolCall {
		return Result{
			IsToolCall: true,
			Request:    &Request{Tool: c.name, Arguments: c.args},
			Raw:        text,
			Method:     MethodJSONParsing,
		}
	}

	if span, ok := outerBraceSpan(trimmed); ok {
		if c := validateCandidate(span); c.kind == candidateToolCall {
			return Result{
				IsToolCall: true,
				Request:    &Request{Tool: c.name, Arguments: c.args},
				Raw:        text,
				Method:     MethodJSONParsing,
			}
		}
	}

	return Result{Raw: text, Method: MethodJSONParsing}
}

// validateCandidate decides whether s is a JSON object of the wire shape
// {"tool": <string>, "arguments": <object>}. Extra top-level fields are
// ignored. A non-object arguments value rejects the candidate even when
// tool parses as a string.
func validateCandidate(s string) parsedCandidate {
	if s == "" || !gjson.Valid(s) {
		return parsedCandidate{kind: candidateNotJSON}
	}
	root := gjson.Parse(s)
	if !root.IsObject() {
		return parsedCandidate{kind: candidateWrongShape}
	}

	tool := root.Get("tool")
	if tool.Type != gjson.String {
		return parsedCandidate{kind: candidateWrongShape}
	}
	args := root.Get("arguments")
	if !args.IsObject() {
		return parsedCandidate{kind: candidateWrongShape}
	}

	m := map[string]any{}
	if err := json.Unmarshal([]byte(args.Raw), &m); err != nil {
		// gjson accepted the span but the strict decoder did not; treat as
		// a failed parse rather than guessing at argument values.
		return parsedCandidate{kind: candidateNotJSON}
	}
	return parsedCandidate{kind: candidateToolCall, name: tool.String(), args: m}
}

// outerBraceSpan returns the substring from the first '{' to the last '}'.
func outerBraceSpan(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
