package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/sjson"

	"github.com/petasbytes/toolchat/chat"
	"github.com/petasbytes/toolchat/detect"
	"github.com/petasbytes/toolchat/internal/telemetry"
	"github.com/petasbytes/toolchat/tools"
)

// Responder obtains the next model response for the full transcript.
type Responder interface {
	GenerateResponse(ctx context.Context, msgs []chat.Message) (string, error)
}

// state enumerates the turn-taking machine. Exactly one state is active at
// a time; there is no internal parallelism in the per-turn pipeline.
type state int

const (
	stateAwaitingInput state = iota
	stateAwaitingModel
	stateExecutingTool
	stateAwaitingFollowup
	stateTerminating
)

// catalog pairs one provider with its tool listing, fetched once at session
// start and treated as static for the session lifetime.
type catalog struct {
	provider tools.Provider
	descs    []tools.Descriptor
}

// turn carries per-turn data between states.
type turn struct {
	ctx context.Context // carries the turn ID
	raw string          // assistant text pending append on the tool path
	req *detect.Request
}

// Session owns the transcript and the tool-capability map for one
// conversation. Neither is shared with or mutable by any other component.
type Session struct {
	responder  Responder
	catalogs   []catalog
	transcript *chat.Transcript
	out        io.Writer

	closeOnce sync.Once
}

// New fetches each provider's catalog, warns about tool-name collisions
// across providers, and seeds the transcript with the rendered system
// message. Providers are scanned in the given order; that order decides
// first-match execution.
func New(ctx context.Context, responder Responder, providers []tools.Provider, out io.Writer) (*Session, error) {
	s := &Session{responder: responder, out: out}

	seen := map[string]string{} // tool name -> provider name
	for _, p := range providers {
		descs, err := p.ListTools(ctx)
		if err != nil {
			return nil, fmt.Errorf("list tools from %s: %w", p.Name(), err)
		}
		for _, d := range descs {
			if prev, ok := seen[d.Name]; ok {
				// First match wins at execution; flag the collision so the
				// operator can fix the configuration.
				fmt.Fprintf(os.Stderr, "warning: tool %q provided by both %s and %s; %s wins\n", d.Name, prev, p.Name(), prev)
				telemetry.Emit("tool_name_collision", map[string]any{
					"tool_name": d.Name,
					"kept":      prev,
					"shadowed":  p.Name(),
				})
				continue
			}
			seen[d.Name] = p.Name()
		}
		s.catalogs = append(s.catalogs, catalog{provider: p, descs: descs})
	}

	s.transcript = chat.NewTranscript(chat.Message{
		Role:    chat.RoleSystem,
		Content: renderSystemPrompt(s.descriptors()),
	})
	return s, nil
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []chat.Message {
	return s.transcript.Messages()
}

// descriptors flattens the cached catalogs in provider order.
func (s *Session) descriptors() []tools.Descriptor {
	var out []tools.Descriptor
	for _, c := range s.catalogs {
		out = append(out, c.descs...)
	}
	return out
}

// Run drives the state machine until termination. Input arrives one line at
// a time on the channel; a closed channel means end-of-input. Cleanup runs
// on every path out of the loop, including cancellation mid-suspension.
func (s *Session) Run(ctx context.Context, input <-chan string) error {
	defer func() { _ = s.Close() }()

	var t turn
	st := stateAwaitingInput
	for st != stateTerminating {
		switch st {
		case stateAwaitingInput:
			st = s.awaitInput(ctx, input, &t)
		case stateAwaitingModel:
			st = s.awaitModel(&t)
		case stateExecutingTool:
			st = s.executeTool(&t)
		case stateAwaitingFollowup:
			st = s.awaitFollowup(&t)
		}
	}
	return s.Close()
}

// awaitInput blocks for one line of user text. Exit commands, end-of-input,
// and cancellation all terminate the session.
func (s *Session) awaitInput(ctx context.Context, input <-chan string, t *turn) state {
	fmt.Fprint(s.out, "\u001b[94mYou\u001b[0m: ")

	var line string
	select {
	case <-ctx.Done():
		return stateTerminating
	case l, ok := <-input:
		if !ok {
			return stateTerminating
		}
		line = l
	}

	switch strings.TrimSpace(line) {
	case "":
		// Nothing to send; prompt again.
		return stateAwaitingInput
	case "exit", "quit":
		return stateTerminating
	}

	turnID := fmt.Sprintf("turn-%d", time.Now().UnixNano())
	t.ctx = telemetry.WithTurnID(ctx, turnID)
	t.raw, t.req = "", nil

	telemetry.Emit("turn_started", map[string]any{"turn_id": turnID})
	telemetry.EmitLocalFeatures(t.ctx, line)

	s.transcript.Append(chat.RoleUser, line)
	return stateAwaitingModel
}

// awaitModel sends the full transcript to the responder and classifies the
// reply. A failed model call ends the turn with an error line; the session
// itself continues.
func (s *Session) awaitModel(t *turn) state {
	text, err := s.responder.GenerateResponse(t.ctx, s.transcript.Messages())
	if err != nil {
		if t.ctx.Err() != nil {
			return stateTerminating
		}
		s.surfaceError(t.ctx, err)
		return stateAwaitingInput
	}

	res := detect.DetectToolCall(text)
	turnID, _ := telemetry.TurnIDFromContext(t.ctx)
	telemetry.Emit("detection", map[string]any{
		"turn_id":      turnID,
		"is_tool_call": res.IsToolCall,
		"method":       string(res.Method),
	})

	if !res.IsToolCall {
		s.transcript.Append(chat.RoleAssistant, text)
		s.reply(text)
		return stateAwaitingInput
	}

	t.raw = text
	t.req = res.Request
	return stateExecutingTool
}

// executeTool locates the first provider whose catalog contains the
// requested tool and invokes it. Missing tools and execution failures both
// become conversational content rather than crashes. The original assistant
// text is appended first, then the result as a system message.
func (s *Session) executeTool(t *turn) state {
	result := s.callFirstOwner(t.ctx, t.req)

	s.transcript.Append(chat.RoleAssistant, t.raw)
	s.transcript.Append(chat.RoleSystem, result)
	return stateAwaitingFollowup
}

// awaitFollowup asks the model to phrase the tool outcome for the user.
func (s *Session) awaitFollowup(t *turn) state {
	text, err := s.responder.GenerateResponse(t.ctx, s.transcript.Messages())
	if err != nil {
		if t.ctx.Err() != nil {
			return stateTerminating
		}
		s.surfaceError(t.ctx, err)
		return stateAwaitingInput
	}
	s.transcript.Append(chat.RoleAssistant, text)
	s.reply(text)
	return stateAwaitingInput
}

// callFirstOwner scans catalogs in provider order and stops at the first
// provider whose catalog contains the tool.
func (s *Session) callFirstOwner(ctx context.Context, req *detect.Request) string {
	for _, c := range s.catalogs {
		for _, d := range c.descs {
			if d.Name != req.Tool {
				continue
			}

			turnID, _ := telemetry.TurnIDFromContext(ctx)
			start := time.Now()
			out, err := c.provider.CallTool(ctx, req.Tool, req.Arguments)

			fields := map[string]any{
				"turn_id":     turnID,
				"tool_name":   req.Tool,
				"provider":    c.provider.Name(),
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if err != nil {
				fields["error"] = "tool error"
				telemetry.Emit("tool_exec", fields)
				return toolErrorEnvelope(req.Tool, err)
			}
			fields["error"] = nil
			fields["output_size"] = len(out)
			telemetry.Emit("tool_exec", fields)
			return toolResultEnvelope(req.Tool, out)
		}
	}
	return fmt.Sprintf("No connected server provides a tool named %q.", req.Tool)
}

// reply emits one assistant-visible line to the user.
func (s *Session) reply(text string) {
	fmt.Fprintf(s.out, "\u001b[93mAssistant\u001b[0m: %s\n", text)
}

// surfaceError converts a failed model call into the turn's observable
// outcome. Never retried.
func (s *Session) surfaceError(ctx context.Context, err error) {
	turnID, _ := telemetry.TurnIDFromContext(ctx)
	telemetry.Emit("provider_error", map[string]any{"turn_id": turnID, "error": err.Error()})
	fmt.Fprintf(s.out, "error: %v\n", err)
}

// Close releases every provider connection exactly once, best-effort.
// A failure closing one connection never prevents closing the rest, and
// cleanup failures are warnings, not errors.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		for _, c := range s.catalogs {
			if err := c.provider.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: closing %s: %v\n", c.provider.Name(), err)
			}
			telemetry.Emit("cleanup", map[string]any{"provider": c.provider.Name()})
		}
	})
	return nil
}

// toolResultEnvelope folds a successful tool payload into transcript content.
func toolResultEnvelope(name, result string) string {
	body, _ := sjson.Set("", "tool", name)
	body, _ = sjson.Set(body, "result", result)
	return "Tool result: " + body
}

// toolErrorEnvelope describes a failed invocation as transcript content so
// the model can react to it in the followup.
func toolErrorEnvelope(name string, err error) string {
	body, _ := sjson.Set("", "tool", name)
	body, _ = sjson.Set(body, "error", err.Error())
	return "Tool result: " + body
}
