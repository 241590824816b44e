package editor

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTitledPDF writes a minimal one-page PDF drawing each line in 18pt
// Helvetica, starting near the top of the page. Lines must not contain
// parentheses or backslashes.
func writeTitledPDF(t *testing.T, path string, lines ...string) {
	t.Helper()

	var ops strings.Builder
	ops.WriteString("BT\n/F1 18 Tf\n0 0.4 0.8 rg\n")
	y := 720
	for _, line := range lines {
		fmt.Fprintf(&ops, "1 0 0 1 72 %d Tm\n(%s) Tj\n", y, line)
		y -= 40
	}
	ops.WriteString("ET\n")
	stream := ops.String()

	var buf bytes.Buffer
	offsets := make([]int, 6)
	addObj := func(n int, body string) {
		offsets[n] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, body)
	}

	buf.WriteString("%PDF-1.4\n")
	addObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	addObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	addObj(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
		"/Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>")
	widths := strings.TrimSpace(strings.Repeat("500 ", 95))
	addObj(4, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding "+
		"/FirstChar 32 /LastChar 126 /Widths [ "+widths+" ] >>")
	addObj(5, fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(stream), stream))

	xref := buf.Len()
	buf.WriteString("xref\n0 6\n0000000000 65535 f \n")
	for n := 1; n <= 5; n++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[n])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 6 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xref)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

// firstPageText joins the first page's assembled text runs
func firstPageText(t *testing.T, path string) string {
	t.Helper()

	runs, err := NewLocator().FirstPageRuns(path)
	require.NoError(t, err)

	var b strings.Builder
	for _, run := range runs {
		b.WriteString(run.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

func TestReplaceDirectRewritesTextLayer(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	out := filepath.Join(dir, "out.pdf")
	writeTitledPDF(t, in, "KYC Report", "Quarterly figures")

	e := NewEditor(false)
	res, err := e.Replace(ReplaceRequest{
		InputPath:  in,
		OutputPath: out,
		OldText:    "KYC Report",
		NewText:    "PD Report",
		Method:     MethodDirect,
	})
	require.NoError(t, err)
	assert.Equal(t, MethodDirect, res.Method)
	assert.Equal(t, 1, res.Occurrences)

	text := firstPageText(t, out)
	assert.Contains(t, text, "PD Report")
	assert.NotContains(t, text, "KYC Report")
	assert.Contains(t, text, "Quarterly figures")
}

func TestReplaceCleanCoversAndRedraws(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	out := filepath.Join(dir, "out.pdf")
	writeTitledPDF(t, in, "KYC Report")

	e := NewEditor(false)
	res, err := e.Replace(ReplaceRequest{
		InputPath:  in,
		OutputPath: out,
		OldText:    "KYC Report",
		NewText:    "PD Report",
		Method:     MethodClean,
	})
	require.NoError(t, err)
	assert.Equal(t, MethodClean, res.Method)

	text := firstPageText(t, out)
	assert.Contains(t, text, "PD Report")

	// The appended content must carry the white cover and the redrawn title
	doc, err := openDocument(out, e.conf)
	require.NoError(t, err)
	defer doc.Close()

	content, err := doc.FirstPageContent()
	require.NoError(t, err)
	assert.Contains(t, string(content), "1 1 1 rg")
	assert.Contains(t, string(content), "(PD Report) Tj")
}

func TestReplacePhraseMissingShortCircuits(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	writeTitledPDF(t, in, "Annual Summary")

	e := NewEditor(false)
	_, err := e.Replace(ReplaceRequest{
		InputPath:  in,
		OutputPath: filepath.Join(dir, "out.pdf"),
		OldText:    "KYC Report",
		NewText:    "PD Report",
	})
	require.ErrorIs(t, err, ErrPhraseNotFound)
}

func TestReplaceUnknownMethod(t *testing.T) {
	e := NewEditor(false)
	_, err := e.Replace(ReplaceRequest{
		InputPath:  "in.pdf",
		OutputPath: "out.pdf",
		OldText:    "KYC Report",
		NewText:    "PD Report",
		Method:     "aggressive",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown replacement method")
}

func TestCaptureSpan(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	writeTitledPDF(t, in, "KYC Report")

	e := NewEditor(false)
	span, err := e.CaptureSpan(in, "KYC Report")
	require.NoError(t, err)

	assert.Equal(t, "KYC Report", span.Text)
	assert.InDelta(t, 18.0, span.FontSize, 0.001)
	assert.InDelta(t, 0.0, span.Color.R, 0.001)
	assert.InDelta(t, 0.4, span.Color.G, 0.001)
	assert.InDelta(t, 0.8, span.Color.B, 0.001)
	assert.InDelta(t, 72.0, span.BBox.X0, 0.001)
	assert.InDelta(t, 720.0, span.BBox.Y0, 0.001)
}
