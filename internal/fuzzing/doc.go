// Package fuzzing runs structured program descriptions through the whole
// Ember pipeline: render, parse, prelude, analyze, execute.
//
// Назначение: единая точка входа для fuzz-обработчиков и replay корпуса.
//
// Failures come back as *failure.Error with Kind Syntax, Semantic or Runtime.
// A prelude that cannot be located is not an error: the harness fails a
// check and the process terminates (see package check).
package fuzzing
