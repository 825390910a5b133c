// Package chat defines the conversation data model.
//
// Model:
//   - Message: role (system/user/assistant) plus text content.
//   - Transcript: append-only ordered message history for one session;
//     the full sequence is replayed to the model on every call.
package chat
