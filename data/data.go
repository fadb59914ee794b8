// Package data ships runtime resources that live next to the ember binary.
package data

import (
	_ "embed"
)

// PreludeID is the logical runfiles identifier of the prelude.
const PreludeID = "ember/data/prelude.em"

// Prelude is the shipped prelude text. The pipeline reads the prelude from
// runfiles; this copy seeds runfiles trees (tests, `ember locate --install`).
//
//go:embed prelude.em
var Prelude []byte
