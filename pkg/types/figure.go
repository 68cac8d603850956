// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paperbuild pipeline.
package types

// SourceFormat identifies the vector source format of a figure.
type SourceFormat string

const (
	SourceSVG SourceFormat = "svg"
	SourceDIA SourceFormat = "dia"
)

// RenderStatus indicates the outcome of rendering one artifact.
type RenderStatus string

const (
	// RenderFresh means the artifact was already newer than its inputs
	// and was left untouched.
	RenderFresh RenderStatus = "fresh"

	// RenderDone means the artifact was regenerated.
	RenderDone RenderStatus = "rendered"

	// RenderFailed means the external tool failed; any partial output
	// has been removed.
	RenderFailed RenderStatus = "failed"
)

// Figure is a vector figure source file discovered in the project.
type Figure struct {
	// Path is the source file path (.svg or .dia).
	Path string `json:"path" yaml:"path"`

	// Format is the source format, derived from the file extension.
	Format SourceFormat `json:"format" yaml:"format"`
}

// Conversion pairs a figure source with the artifact it derives.
type Conversion struct {
	// Figure is the source being converted.
	Figure Figure `json:"figure" yaml:"figure"`

	// Target is the derived artifact path, obtained from the source path
	// by extension substitution (fig.svg -> fig.pdf or fig.eps).
	Target string `json:"target" yaml:"target"`

	// Format is the target format: pdf or eps, never auto.
	Format FigureFormat `json:"format" yaml:"format"`
}
