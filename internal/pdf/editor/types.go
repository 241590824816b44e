// Package editor rewrites the first page of PDF documents, replacing a
// located phrase while preserving the surrounding layout. It locates text
// with ledongthuc/pdf and performs the page edits through pdfcpu.
package editor

import "errors"

// Method names, in fallback order. Each trades fidelity against robustness:
// the earlier methods preserve more of the page, the later ones succeed on
// more documents.
const (
	MethodClean    = "clean"
	MethodMinimal  = "minimal"
	MethodDirect   = "direct"
	MethodOverlay  = "overlay"
	MethodPrecise  = "precise"
	MethodStandard = "standard"
	MethodSimple   = "simple"
)

// FallbackChain returns the method order used when a method fails
func FallbackChain() []string {
	return []string{
		MethodClean, MethodMinimal, MethodDirect, MethodOverlay,
		MethodPrecise, MethodStandard, MethodSimple,
	}
}

// ErrPhraseNotFound is returned when the target phrase does not occur on
// the first page of the document
var ErrPhraseNotFound = errors.New("phrase not found on first page")

// ErrNoLiteralMatch is returned by content-stream surgery methods when the
// phrase exists on the page but is not stored as a contiguous string
// literal, so it cannot be rewritten in place
var ErrNoLiteralMatch = errors.New("phrase not present as a contiguous content stream literal")

// Rect is an axis-aligned bounding box in PDF user space
// (origin bottom-left, units are points)
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Width returns the horizontal extent of the rectangle
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the vertical extent of the rectangle
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// Expand returns a copy of the rectangle grown by d points on every side
func (r Rect) Expand(d float64) Rect {
	return Rect{X0: r.X0 - d, Y0: r.Y0 - d, X1: r.X1 + d, Y1: r.Y1 + d}
}

// Color is an RGB fill color with components in [0,1]
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// TextRun is a horizontal run of glyphs sharing a baseline and font,
// assembled from the per-glyph elements the text extractor yields
type TextRun struct {
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"` // baseline
	W        float64 `json:"w"`
	Font     string  `json:"font"`
	FontSize float64 `json:"font_size"`
}

// TextSpan is a located occurrence of a phrase, with the formatting
// captured from the glyphs that draw it. Baseline sits at BBox.Y0.
type TextSpan struct {
	Text     string  `json:"text"`
	BBox     Rect    `json:"bbox"`
	Font     string  `json:"font"`
	FontSize float64 `json:"font_size"`
	Color    Color   `json:"color"`
}

// ReplaceRequest describes a single-file replacement operation
type ReplaceRequest struct {
	InputPath  string
	OutputPath string
	OldText    string
	NewText    string
	Method     string
}

// ReplaceResult reports which method produced the output and how many
// occurrences were replaced
type ReplaceResult struct {
	Method      string
	Occurrences int
}
