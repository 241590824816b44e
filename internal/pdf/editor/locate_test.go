package editor

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// glyphs lays out the characters of text as consecutive glyph elements
// starting at (x, y), each advancing by width
func glyphs(text string, x, y, width float64, font string, size float64) []pdf.Text {
	out := make([]pdf.Text, 0, len(text))
	for i, r := range text {
		out = append(out, pdf.Text{
			S:        string(r),
			X:        x + float64(i)*width,
			Y:        y,
			W:        width,
			Font:     font,
			FontSize: size,
		})
	}
	return out
}

func TestAssembleRuns_SingleLine(t *testing.T) {
	elems := glyphs("KYC Report", 72, 700, 10, "Helvetica-Bold", 24)

	runs := assembleRuns(elems)
	require.Len(t, runs, 1)

	run := runs[0].run
	assert.Equal(t, "KYC Report", run.Text)
	assert.Equal(t, 72.0, run.X)
	assert.Equal(t, 700.0, run.Y)
	assert.Equal(t, 100.0, run.W)
	assert.Equal(t, "Helvetica-Bold", run.Font)
	assert.Equal(t, 24.0, run.FontSize)
}

func TestAssembleRuns_BaselineBreaksRun(t *testing.T) {
	elems := glyphs("KYC", 72, 700, 10, "Helvetica", 12)
	elems = append(elems, glyphs("Report", 72, 650, 10, "Helvetica", 12)...)

	runs := assembleRuns(elems)
	require.Len(t, runs, 2)
	assert.Equal(t, "KYC", runs[0].run.Text)
	assert.Equal(t, "Report", runs[1].run.Text)
}

func TestAssembleRuns_FontChangeBreaksRun(t *testing.T) {
	elems := glyphs("KYC ", 72, 700, 10, "Helvetica", 12)
	elems = append(elems, glyphs("Report", 112, 700, 10, "Times-Roman", 12)...)

	runs := assembleRuns(elems)
	require.Len(t, runs, 2)
}

func TestAssembleRuns_LargeGapBreaksRun(t *testing.T) {
	left := glyphs("Left", 72, 700, 10, "Helvetica", 12)
	// Far beyond the gap tolerance of half the font size
	right := glyphs("Right", 400, 700, 10, "Helvetica", 12)

	runs := assembleRuns(append(left, right...))
	require.Len(t, runs, 2)
}

func TestAssembleRuns_SkipsEmptyGlyphs(t *testing.T) {
	elems := []pdf.Text{
		{S: "", X: 0, Y: 700},
		{S: "A", X: 72, Y: 700, W: 10, Font: "Helvetica", FontSize: 12},
	}

	runs := assembleRuns(elems)
	require.Len(t, runs, 1)
	assert.Equal(t, "A", runs[0].run.Text)
}

func TestSpansInRun(t *testing.T) {
	locator := NewLocator()

	elems := glyphs("Title: KYC Report 2024", 72, 700, 10, "Helvetica-Bold", 24)
	runs := assembleRuns(elems)
	require.Len(t, runs, 1)

	spans := locator.spansInRun(runs[0], "KYC Report")
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "KYC Report", span.Text)
	assert.Equal(t, "Helvetica-Bold", span.Font)
	assert.Equal(t, 24.0, span.FontSize)

	// "KYC Report" starts at byte 7 of the run
	assert.InDelta(t, 72+7*10, span.BBox.X0, 0.001)
	assert.InDelta(t, 72+17*10, span.BBox.X1, 0.001)
	assert.InDelta(t, 700.0, span.BBox.Y0, 0.001)
	assert.InDelta(t, 724.0, span.BBox.Y1, 0.001)
}

func TestSpansInRun_MultipleOccurrences(t *testing.T) {
	locator := NewLocator()

	runs := assembleRuns(glyphs("KYC KYC", 0, 100, 10, "F", 12))
	require.Len(t, runs, 1)

	spans := locator.spansInRun(runs[0], "KYC")
	assert.Len(t, spans, 2)
}

func TestSpansInRun_NoMatch(t *testing.T) {
	locator := NewLocator()

	runs := assembleRuns(glyphs("Annual Summary", 0, 100, 10, "F", 12))
	require.Len(t, runs, 1)

	spans := locator.spansInRun(runs[0], "KYC Report")
	assert.Empty(t, spans)
}

func TestLocateSpans_EmptyPhrase(t *testing.T) {
	locator := NewLocator()

	_, err := locator.LocateSpans("whatever.pdf", "")
	assert.Error(t, err)
}

func TestRect(t *testing.T) {
	r := Rect{X0: 10, Y0: 20, X1: 110, Y1: 44}

	assert.Equal(t, 100.0, r.Width())
	assert.Equal(t, 24.0, r.Height())

	e := r.Expand(3)
	assert.Equal(t, Rect{X0: 7, Y0: 17, X1: 113, Y1: 47}, e)
}

func TestFallbackChain(t *testing.T) {
	chain := FallbackChain()

	expected := []string{
		MethodClean, MethodMinimal, MethodDirect, MethodOverlay,
		MethodPrecise, MethodStandard, MethodSimple,
	}
	assert.Equal(t, expected, chain)
}
