package types

import "time"

// FigureFormat selects the rendered figure format.
type FigureFormat string

const (
	// FormatAuto picks the format from the engine route: EPS for the DVI
	// route (latex), PDF otherwise.
	FormatAuto FigureFormat = "auto"
	FormatPDF  FigureFormat = "pdf"
	FormatEPS  FigureFormat = "eps"
)

// FiguresConfig holds settings for the figure conversion stage.
type FiguresConfig struct {
	// Dirs lists the directories scanned for .svg and .dia sources.
	Dirs []string `json:"dirs" yaml:"dirs"`

	// Format is the rendered figure format: pdf, eps, or auto.
	Format FigureFormat `json:"format" yaml:"format"`

	// Jobs is the number of figures rendered concurrently (default 1).
	Jobs int `json:"jobs" yaml:"jobs"`
}

// TexConfig holds settings for the document compilation stage.
type TexConfig struct {
	// Document is the main .tex source. When empty, the project loader
	// auto-detects it if exactly one .tex file exists at the project root.
	Document string `json:"document" yaml:"document"`

	// Engine selects the typesetting engine: pdflatex, xelatex, lualatex,
	// or latex. When empty, the first available engine in that order is used.
	Engine string `json:"engine" yaml:"engine"`

	// MaxPasses caps the number of engine passes per build (default 4).
	// The compiler always runs at least two passes so cross-references
	// resolve; extra passes run only while the engine log requests a rerun.
	MaxPasses int `json:"max_passes" yaml:"max_passes"`
}

// CleanConfig holds settings for the clean target.
type CleanConfig struct {
	// Extra lists additional glob patterns (relative to the project root)
	// deleted by clean, on top of the derived artifacts the build plans.
	Extra []string `json:"extra" yaml:"extra"`
}

// WatchConfig holds settings for watch mode.
type WatchConfig struct {
	// Debounce is the quiet window after a source change before a rebuild
	// starts (default 300ms).
	Debounce time.Duration `json:"debounce" yaml:"debounce"`
}

// JournalConfig holds settings for the build journal.
type JournalConfig struct {
	// Path is the journal database path, relative to the project root
	// (default ".paperbuild/journal.db").
	Path string `json:"path" yaml:"path"`

	// Disabled turns journal recording off entirely.
	Disabled bool `json:"disabled" yaml:"disabled"`
}

// ProjectConfig groups all stage configurations for a paper project.
type ProjectConfig struct {
	Figures FiguresConfig `json:"figures" yaml:"figures"`
	Tex     TexConfig     `json:"tex" yaml:"tex"`
	Clean   CleanConfig   `json:"clean" yaml:"clean"`
	Watch   WatchConfig   `json:"watch" yaml:"watch"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
}
