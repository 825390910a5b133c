package session

import (
	"fmt"
	"strings"

	"github.com/petasbytes/toolchat/tools"
)

// wireShape is the single source of truth shared with the detection engine:
// the field names here must match what detect's JSON validator expects.
const wireShape = `{"tool": "<tool-name>", "arguments": {"<arg-name>": <value>}}`

// renderSystemPrompt turns the combined tool catalog into the session's
// system message: one block per tool, then the exact JSON shape the model
// must use to invoke one.
func renderSystemPrompt(descs []tools.Descriptor) string {
	var b strings.Builder

	b.WriteString("You are a helpful assistant with access to external tools.\n\n")

	if len(descs) == 0 {
		b.WriteString("No tools are currently available; answer from your own knowledge.\n")
		return b.String()
	}

	b.WriteString("Available tools:\n")
	for _, d := range descs {
		fmt.Fprintf(&b, "- %s", d.Name)
		if desc := strings.TrimSpace(d.Description); desc != "" {
			fmt.Fprintf(&b, ": %s", firstLine(desc))
		}
		b.WriteString("\n")
		for _, a := range d.Args {
			fmt.Fprintf(&b, "    %s", a.Name)
			if a.Required {
				b.WriteString(" (required)")
			}
			if a.Description != "" {
				fmt.Fprintf(&b, ": %s", a.Description)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\nTo invoke a tool, reply with a single JSON object of exactly this form and nothing else:\n")
	b.WriteString(wireShape + "\n\n")
	b.WriteString("Use the exact tool name and argument names shown above. ")
	b.WriteString("When no tool is needed, reply in plain text. ")
	b.WriteString("After a tool result message appears, summarise the outcome for the user in plain language.\n")

	return b.String()
}

// firstLine keeps multi-paragraph tool descriptions to one prompt line.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
