package editor

import (
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Tolerances for assembling per-glyph text elements into runs. Glyphs on
// the same baseline within half a point are one line; a horizontal gap
// wider than gapFactor times the font size breaks the run.
const (
	baselineTolerance = 0.5
	gapFactor         = 0.5
)

// Locator finds phrase occurrences on the first page of a document and
// captures the formatting needed to redraw them
type Locator struct{}

// NewLocator creates a phrase locator
func NewLocator() *Locator {
	return &Locator{}
}

// glyphRun pairs an assembled run with the glyph elements that compose it,
// so a substring match can be mapped back to exact coordinates
type glyphRun struct {
	run TextRun
	// offsets[i] is the rune-free byte offset of glyphs[i].S within run.Text
	glyphs  []pdf.Text
	offsets []int
}

// FirstPageRuns extracts the first page's text as positioned runs
func (l *Locator) FirstPageRuns(path string) ([]TextRun, error) {
	runs, err := l.firstPageGlyphRuns(path)
	if err != nil {
		return nil, err
	}

	out := make([]TextRun, 0, len(runs))
	for _, gr := range runs {
		out = append(out, gr.run)
	}
	return out, nil
}

// LocateSpans finds every occurrence of phrase on the first page and
// returns a span per occurrence, in content order
func (l *Locator) LocateSpans(path, phrase string) ([]TextSpan, error) {
	if phrase == "" {
		return nil, fmt.Errorf("phrase cannot be empty")
	}

	runs, err := l.firstPageGlyphRuns(path)
	if err != nil {
		return nil, err
	}

	var spans []TextSpan
	for _, gr := range runs {
		spans = append(spans, l.spansInRun(gr, phrase)...)
	}

	if len(spans) == 0 {
		return nil, ErrPhraseNotFound
	}
	return spans, nil
}

// firstPageGlyphRuns opens the document and assembles page 1 glyphs into runs
func (l *Locator) firstPageGlyphRuns(path string) ([]glyphRun, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	if r.NumPage() < 1 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	page := r.Page(1)
	if page.V.IsNull() {
		return nil, fmt.Errorf("first page is unreadable")
	}

	content := page.Content()
	return assembleRuns(content.Text), nil
}

// assembleRuns groups consecutive glyph elements into baseline runs
func assembleRuns(glyphs []pdf.Text) []glyphRun {
	var runs []glyphRun
	var cur *glyphRun

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}

		if cur != nil && continuesRun(cur, g) {
			cur.offsets = append(cur.offsets, len(cur.run.Text))
			cur.glyphs = append(cur.glyphs, g)
			cur.run.Text += g.S
			cur.run.W = g.X + g.W - cur.run.X
			continue
		}

		if cur != nil {
			runs = append(runs, *cur)
		}
		cur = &glyphRun{
			run: TextRun{
				Text:     g.S,
				X:        g.X,
				Y:        g.Y,
				W:        g.W,
				Font:     g.Font,
				FontSize: g.FontSize,
			},
			glyphs:  []pdf.Text{g},
			offsets: []int{0},
		}
	}
	if cur != nil {
		runs = append(runs, *cur)
	}

	return runs
}

// continuesRun reports whether glyph g extends the current run
func continuesRun(cur *glyphRun, g pdf.Text) bool {
	last := cur.glyphs[len(cur.glyphs)-1]

	if g.Font != cur.run.Font || g.FontSize != cur.run.FontSize {
		return false
	}
	if math.Abs(g.Y-cur.run.Y) > baselineTolerance {
		return false
	}

	// Glyph must start near where the previous one ended. Moving left
	// means a new line or a new text object.
	gap := g.X - (last.X + last.W)
	maxGap := gapFactor * cur.run.FontSize
	if maxGap <= 0 {
		maxGap = 3
	}
	return gap > -maxGap && gap < maxGap
}

// spansInRun maps phrase occurrences inside a run back to glyph coordinates
func (l *Locator) spansInRun(gr glyphRun, phrase string) []TextSpan {
	var spans []TextSpan

	searchFrom := 0
	for {
		rel := strings.Index(gr.run.Text[searchFrom:], phrase)
		if rel < 0 {
			break
		}
		start := searchFrom + rel
		end := start + len(phrase)

		first := gr.glyphIndexAt(start)
		last := gr.glyphIndexAt(end - 1)
		if first < 0 || last < 0 {
			break
		}

		startGlyph := gr.glyphs[first]
		endGlyph := gr.glyphs[last]

		spans = append(spans, TextSpan{
			Text:     phrase,
			Font:     gr.run.Font,
			FontSize: gr.run.FontSize,
			BBox: Rect{
				X0: startGlyph.X,
				Y0: gr.run.Y,
				X1: endGlyph.X + endGlyph.W,
				Y1: gr.run.Y + gr.run.FontSize,
			},
		})

		searchFrom = end
	}

	return spans
}

// glyphIndexAt returns the index of the glyph covering byte offset off
// within the run text, or -1
func (gr glyphRun) glyphIndexAt(off int) int {
	for i := len(gr.offsets) - 1; i >= 0; i-- {
		if gr.offsets[i] <= off {
			return i
		}
	}
	return -1
}
