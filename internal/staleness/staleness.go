// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package staleness decides whether derived files must be regenerated.
// A derived file is valid only while it is at least as new as every one of
// its inputs; see docs/ARCHITECTURE § Staleness.
package staleness

import (
	"fmt"
	"os"
)

// Result reports why (or that) a target needs regeneration.
type Result struct {
	// Stale is true when the target is missing or older than an input.
	Stale bool

	// Missing is true when the target does not exist.
	Missing bool

	// NewerInput is the first input found to be strictly newer than the
	// target. Empty when Missing is true or the target is fresh.
	NewerInput string
}

// Reason returns a short human-readable explanation, empty for fresh targets.
func (r Result) Reason() string {
	switch {
	case r.Missing:
		return "missing"
	case r.NewerInput != "":
		return "older than " + r.NewerInput
	default:
		return ""
	}
}

// Check reports whether target must be regenerated from inputs.
//
// A missing target is stale. An existing target is stale when any input's
// modification time is strictly newer than the target's; equal times count
// as fresh, matching make semantics. A missing input is an error: inputs
// are authored sources and the caller cannot proceed without them.
func Check(target string, inputs []string) (Result, error) {
	ti, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Stale: true, Missing: true}, nil
		}
		return Result{}, fmt.Errorf("stat target %s: %w", target, err)
	}

	targetTime := ti.ModTime()
	for _, input := range inputs {
		ii, err := os.Stat(input)
		if err != nil {
			return Result{}, fmt.Errorf("stat input %s: %w", input, err)
		}
		if ii.ModTime().After(targetTime) {
			return Result{Stale: true, NewerInput: input}, nil
		}
	}
	return Result{}, nil
}
