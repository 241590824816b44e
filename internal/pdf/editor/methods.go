package editor

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/color"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// TitleColorHex is the fill color used for redrawn report titles
const TitleColorHex = "#0066cc"

// Padding around the located span when covering it with a white rectangle.
// The clean method paints generously, minimal stays tight.
const (
	cleanPadding    = 3.0
	minimalPadding  = 2.0
	standardPadding = 1.0
)

// Editor performs first-page phrase replacement using one of several
// strategies, falling back to progressively more robust ones on failure
type Editor struct {
	conf    *model.Configuration
	locator *Locator
	title   Color
	debug   bool
}

// NewEditor creates an editor with relaxed pdfcpu validation, matching how
// real-world report PDFs tend to bend the spec
func NewEditor(debug bool) *Editor {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	title := Color{R: 0, G: 0.4, B: 0.8}
	if sc, err := color.NewSimpleColorForHexCode(TitleColorHex); err == nil {
		title = Color{R: float64(sc.R), G: float64(sc.G), B: float64(sc.B)}
	}

	return &Editor{
		conf:    conf,
		locator: NewLocator(),
		title:   title,
		debug:   debug,
	}
}

// Replace applies the requested method and, when it fails, walks the rest
// of the fallback chain. A missing phrase is terminal: no later method can
// replace text that is not there.
func (e *Editor) Replace(req ReplaceRequest) (*ReplaceResult, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	chain := FallbackChain()
	start := -1
	for i, m := range chain {
		if m == req.Method {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("unknown replacement method: %s", req.Method)
	}

	var lastErr error
	for _, method := range chain[start:] {
		result, err := e.applyMethod(method, req)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, ErrPhraseNotFound) {
			return nil, err
		}

		lastErr = err
		log.Printf("WARN: %s method failed for %s: %v", method, filepath.Base(req.InputPath), err)
	}

	return nil, fmt.Errorf("all replacement methods failed: %w", lastErr)
}

func (e *Editor) applyMethod(method string, req ReplaceRequest) (*ReplaceResult, error) {
	switch method {
	case MethodClean:
		return e.replaceCovered(req, cleanPadding, MethodClean)
	case MethodMinimal:
		return e.replaceCovered(req, minimalPadding, MethodMinimal)
	case MethodDirect:
		return e.replaceDirect(req)
	case MethodOverlay:
		return e.replaceOverlay(req)
	case MethodPrecise:
		return e.replacePrecise(req)
	case MethodStandard:
		return e.replaceStandard(req)
	case MethodSimple:
		return e.replaceSimple(req)
	default:
		return nil, fmt.Errorf("unknown replacement method: %s", method)
	}
}

func validateRequest(req *ReplaceRequest) error {
	if req.InputPath == "" {
		return fmt.Errorf("input path cannot be empty")
	}
	if req.OutputPath == "" {
		return fmt.Errorf("output path cannot be empty")
	}
	if req.OldText == "" || req.NewText == "" {
		return fmt.Errorf("replacement phrases cannot be empty")
	}
	if req.Method == "" {
		req.Method = MethodClean
	}
	return nil
}

// replaceCovered locates the first occurrence, paints a white rectangle
// over its padded bounding box and redraws the replacement at the original
// baseline. Used by the clean and minimal methods.
func (e *Editor) replaceCovered(req ReplaceRequest, padding float64, method string) (*ReplaceResult, error) {
	span, err := e.CaptureSpan(req.InputPath, req.OldText)
	if err != nil {
		return nil, err
	}

	if e.debug {
		log.Printf("DEBUG: found %q with font %s, size %.1f, fill (%.2f %.2f %.2f) at (%.1f, %.1f)",
			req.OldText, span.Font, span.FontSize,
			span.Color.R, span.Color.G, span.Color.B, span.BBox.X0, span.BBox.Y0)
	}

	doc, err := openDocument(req.InputPath, e.conf)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	if err := doc.EnsureOverlayFont(); err != nil {
		return nil, err
	}

	ops := whiteRectOps(span.BBox.Expand(padding)) +
		textOps(e.drawSize(*span), e.title, span.BBox.X0, span.BBox.Y0, req.NewText)
	if err := doc.AppendFirstPageContent([]byte(ops)); err != nil {
		return nil, err
	}

	if err := doc.Save(req.OutputPath); err != nil {
		return nil, err
	}

	return &ReplaceResult{Method: method, Occurrences: 1}, nil
}

// replaceDirect rewrites the phrase inside the content stream's string
// literals without touching anything else. Fails when the phrase is split
// across text-showing operators.
func (e *Editor) replaceDirect(req ReplaceRequest) (*ReplaceResult, error) {
	if _, err := e.locator.LocateSpans(req.InputPath, req.OldText); err != nil {
		return nil, err
	}

	doc, err := openDocument(req.InputPath, e.conf)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	content, err := doc.FirstPageContent()
	if err != nil {
		return nil, err
	}

	rewritten, count := replaceInLiterals(content, req.OldText, req.NewText)
	if count == 0 {
		rewritten, count = replaceInTJArrays(content, req.OldText, req.NewText)
	}
	if count == 0 {
		return nil, ErrNoLiteralMatch
	}

	if err := doc.SetFirstPageContent(rewritten); err != nil {
		return nil, err
	}
	if err := doc.Save(req.OutputPath); err != nil {
		return nil, err
	}

	return &ReplaceResult{Method: MethodDirect, Occurrences: count}, nil
}

// replaceOverlay erases the phrase by blanking its string literal, then
// draws the replacement as an overlay at the captured position
func (e *Editor) replaceOverlay(req ReplaceRequest) (*ReplaceResult, error) {
	spans, err := e.locator.LocateSpans(req.InputPath, req.OldText)
	if err != nil {
		return nil, err
	}
	span := spans[0]

	doc, err := openDocument(req.InputPath, e.conf)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	content, err := doc.FirstPageContent()
	if err != nil {
		return nil, err
	}

	erased, count := replaceInLiterals(content, req.OldText, "")
	if count == 0 {
		erased, count = replaceInTJArrays(content, req.OldText, "")
	}
	if count == 0 {
		return nil, ErrNoLiteralMatch
	}

	if err := doc.SetFirstPageContent(erased); err != nil {
		return nil, err
	}
	if err := doc.EnsureOverlayFont(); err != nil {
		return nil, err
	}

	ops := textOps(e.drawSize(span), e.title, span.BBox.X0, span.BBox.Y0, req.NewText)
	if err := doc.AppendFirstPageContent([]byte(ops)); err != nil {
		return nil, err
	}

	if err := doc.Save(req.OutputPath); err != nil {
		return nil, err
	}

	return &ReplaceResult{Method: MethodOverlay, Occurrences: count}, nil
}

// replacePrecise regenerates the first page's content stream from the
// located text runs. Every run is redrawn at its original position and
// size; the run carrying the phrase gets the title color, everything else
// is drawn black, and non-text content is dropped.
func (e *Editor) replacePrecise(req ReplaceRequest) (*ReplaceResult, error) {
	runs, err := e.locator.FirstPageRuns(req.InputPath)
	if err != nil {
		return nil, err
	}

	count := 0
	var b strings.Builder
	for _, run := range runs {
		text := run.Text
		c := Color{} // black
		if strings.Contains(text, req.OldText) {
			text = strings.ReplaceAll(text, req.OldText, req.NewText)
			c = e.title
			count++
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		size := run.FontSize
		if size == 0 {
			size = 12
		}
		b.WriteString(textOps(size, c, run.X, run.Y, text))
	}

	if count == 0 {
		return nil, ErrPhraseNotFound
	}

	doc, err := openDocument(req.InputPath, e.conf)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	if err := doc.SetFirstPageContent([]byte(b.String())); err != nil {
		return nil, err
	}
	if err := doc.EnsureOverlayFont(); err != nil {
		return nil, err
	}

	if err := doc.Save(req.OutputPath); err != nil {
		return nil, err
	}

	return &ReplaceResult{Method: MethodPrecise, Occurrences: count}, nil
}

// replaceStandard covers and redraws every occurrence on the first page
func (e *Editor) replaceStandard(req ReplaceRequest) (*ReplaceResult, error) {
	spans, err := e.locator.LocateSpans(req.InputPath, req.OldText)
	if err != nil {
		return nil, err
	}

	doc, err := openDocument(req.InputPath, e.conf)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	if err := doc.EnsureOverlayFont(); err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, span := range spans {
		b.WriteString(whiteRectOps(span.BBox.Expand(standardPadding)))
		b.WriteString(textOps(e.drawSize(span), e.title, span.BBox.X0, span.BBox.Y0, req.NewText))
	}
	if err := doc.AppendFirstPageContent([]byte(b.String())); err != nil {
		return nil, err
	}

	if err := doc.Save(req.OutputPath); err != nil {
		return nil, err
	}

	return &ReplaceResult{Method: MethodStandard, Occurrences: len(spans)}, nil
}

// replaceSimple stamps the replacement phrase near the top of the first
// page without erasing anything. Lowest fidelity, highest robustness.
func (e *Editor) replaceSimple(req ReplaceRequest) (*ReplaceResult, error) {
	if _, err := e.locator.LocateSpans(req.InputPath, req.OldText); err != nil {
		return nil, err
	}

	wm, err := api.TextWatermark(req.NewText, e.stampDescription(), true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("failed to build stamp: %w", err)
	}

	if dir := filepath.Dir(req.OutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := api.AddWatermarksFile(req.InputPath, req.OutputPath, []string{"1"}, wm, e.conf); err != nil {
		return nil, fmt.Errorf("failed to stamp page: %w", err)
	}

	return &ReplaceResult{Method: MethodSimple, Occurrences: 1}, nil
}

// stampDescription is the pdfcpu watermark description for the simple method
func (e *Editor) stampDescription() string {
	return fmt.Sprintf(
		"fontname:Helvetica-Bold, points:24, fillcolor:%s, position:tl, offset:50 -50, rotation:0, scalefactor:1 abs, opacity:1",
		TitleColorHex)
}

// drawSize picks the font size for redrawn text
func (e *Editor) drawSize(span TextSpan) float64 {
	if span.FontSize > 0 {
		return span.FontSize
	}
	return 12
}

// CaptureSpan locates the first occurrence and enriches it with the fill
// color captured from the content stream
func (e *Editor) CaptureSpan(path, phrase string) (*TextSpan, error) {
	spans, err := e.locator.LocateSpans(path, phrase)
	if err != nil {
		return nil, err
	}
	span := spans[0]

	doc, err := openDocument(path, e.conf)
	if err != nil {
		return &span, nil //nolint:nilerr // span is still useful without color
	}
	defer doc.Close()

	if content, err := doc.FirstPageContent(); err == nil {
		if c, ok := scanFillColor(content, phrase); ok {
			span.Color = c
		}
	}

	return &span, nil
}
