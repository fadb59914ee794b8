// Package token defines lexical token kinds for Ember.
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span.
//   - Built-in type names (i32, bool, String) are identifiers; the semantic
//     layer gives them meaning, not the lexer.
//   - Comments never appear in the token stream.
package token
