// Package tools defines tool contracts and the built-in tool provider.
//
// Includes:
//   - Descriptor: name, description, named argument specs.
//   - Provider: catalog listing, execution, and connection close.
//   - Definition + GenerateSchema[T](): built-in tools with JSON Schema
//     derived from Go structs.
//   - File tools: read_file, list_files (non-recursive), edit_file.
package tools
