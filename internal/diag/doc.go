// Package diag defines the diagnostic model shared by the lexer, parser and
// semantic analysis.
//
// Phases emit through a Reporter (usually a BagReporter) and never format or
// print anything themselves. A Bag keeps diagnostics in emission order up to a
// configurable cap; Sort gives the deterministic order used by the pipeline
// when it turns a bag into a failure.
//
// Codes are grouped by phase: 1xxx lexical, 2xxx syntax, 3xxx semantic.
package diag
