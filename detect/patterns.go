package detect

import (
	"regexp"
	"strings"
)

// Precompiled surface patterns, evaluated in fixed order; the first match
// supplies the tool name. NAME is a token of letters, digits, underscores,
// and hyphens starting with a letter or underscore.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:use|call|invoke)\s+(?:the\s+)?tool:?\s+([A-Za-z_][A-Za-z0-9_-]*)`),
	regexp.MustCompile(`(?i)\btool:\s*([A-Za-z_][A-Za-z0-9_-]*)`),
	regexp.MustCompile(`(?i)\[tool:\s*([A-Za-z_][A-Za-z0-9_-]*)\]`),
}

// argKeyPattern locates key: anchors; values are carved out of the text
// between one anchor and the next so an unquoted run can never swallow a
// later key: value pair.
var argKeyPattern = regexp.MustCompile(`([A-Za-z_]+)\s*:\s*`)

// FromTextPatterns attempts heuristic detection over prose that names a tool
// without valid JSON. Argument extraction is best-effort and untyped: values
// are kept as plain strings with no schema validation at this stage.
func FromTextPatterns(text string) Result {
	var name string
	for _, p := range namePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			name = m[1]
			break
		}
	}
	if name == "" {
		return Result{Raw: text, Method: MethodTextAnalysis}
	}

	return Result{
		IsToolCall: true,
		Request:    &Request{Tool: name, Arguments: scrapeArguments(text)},
		Raw:        text,
		Method:     MethodTextAnalysis,
	}
}

// scrapeArguments collects key: value tokens from the full text. The "tool"
// key itself is skipped since it names the tool rather than an argument.
func scrapeArguments(text string) map[string]any {
	args := map[string]any{}
	keys := argKeyPattern.FindAllStringSubmatchIndex(text, -1)
	for i, k := range keys {
		key := text[k[2]:k[3]]
		if strings.EqualFold(key, "tool") {
			continue
		}
		seg := text[k[1]:]
		if i+1 < len(keys) {
			seg = text[k[1]:keys[i+1][0]]
		}
		if val, ok := argValue(seg); ok {
			args[key] = val
		}
	}
	return args
}

// argValue extracts one value from the text following a key's colon: a
// quoted string, or an unquoted run up to a comma, closing brace, or
// newline.
func argValue(seg string) (string, bool) {
	if strings.HasPrefix(seg, `"`) {
		if end := strings.Index(seg[1:], `"`); end >= 0 {
			return seg[1 : 1+end], true
		}
		seg = seg[1:]
	}
	if cut := strings.IndexAny(seg, ",}\n"); cut >= 0 {
		seg = seg[:cut]
	}
	seg = strings.TrimSpace(seg)
	return seg, seg != ""
}
