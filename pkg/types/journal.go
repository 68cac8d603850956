// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// BuildOutcome classifies how a journaled run ended.
type BuildOutcome string

const (
	// OutcomeOK means the run completed and its artifacts are current.
	OutcomeOK BuildOutcome = "ok"
	// OutcomeFailed means the run stopped on an error.
	OutcomeFailed BuildOutcome = "failed"
)

// BuildRecord is one journaled run of a pipeline command.
type BuildRecord struct {
	// ID is assigned by the journal on insert.
	ID int64 `json:"id" yaml:"id"`
	// StartedAt is when the run began, in UTC.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	// Duration is the wall-clock time of the run.
	Duration time.Duration `json:"duration" yaml:"duration"`
	// Command is the pipeline operation that ran ("build", "clean", ...).
	Command string `json:"command" yaml:"command"`
	// Document is the main .tex source, when the command had one.
	Document string `json:"document,omitempty" yaml:"document,omitempty"`
	// Artifact is the produced document path, when the command made one.
	Artifact string `json:"artifact,omitempty" yaml:"artifact,omitempty"`
	// Engine is the LaTeX compiler used.
	Engine string `json:"engine,omitempty" yaml:"engine,omitempty"`
	// Passes is how many compiler passes ran.
	Passes int `json:"passes" yaml:"passes"`

	FiguresRendered int `json:"figures_rendered" yaml:"figures_rendered"`
	FiguresFresh    int `json:"figures_fresh" yaml:"figures_fresh"`
	FiguresFailed   int `json:"figures_failed" yaml:"figures_failed"`

	Outcome BuildOutcome `json:"outcome" yaml:"outcome"`
	// Error holds the failure message when Outcome is OutcomeFailed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}
