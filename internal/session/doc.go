// Package session drives one interactive conversation from start to
// termination.
//
// The turn loop is an explicit state machine:
//
//	AwaitingInput -> AwaitingModel -> AwaitingInput            (direct answer)
//	AwaitingInput -> AwaitingModel -> ExecutingTool
//	              -> AwaitingFollowup -> AwaitingInput         (tool turn)
//
// with Terminating reachable from every suspension point via cancellation,
// end-of-input, or an exit command.
//
// Invariants:
//   - The transcript is append-only and replayed in full on every model call.
//   - Every accepted user turn produces exactly one user-visible reply.
//   - Provider connections are closed exactly once, on every termination path.
package session
