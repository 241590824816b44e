package editor

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// overlayFontName is the resource name under which the replacement text
// font is registered in the first page's font resources
const overlayFontName = "F0PDR"

// document wraps a pdfcpu context for first-page content edits. The source
// file stays open for the lifetime of the document because pdfcpu resolves
// stream objects lazily.
type document struct {
	ctx  *model.Context
	file *os.File
	path string
}

// openDocument reads a PDF into a pdfcpu context with relaxed validation
func openDocument(path string, conf *model.Configuration) (*document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF file: %w", err)
	}

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}
	if ctx.PageCount < 1 {
		file.Close()
		return nil, fmt.Errorf("PDF has no pages")
	}

	return &document{ctx: ctx, file: file, path: path}, nil
}

// Close releases the underlying file handle
func (d *document) Close() error {
	if d.file != nil {
		err := d.file.Close()
		d.file = nil
		return err
	}
	return nil
}

// Save writes the (possibly modified) document to outPath, creating parent
// directories as needed
func (d *document) Save(outPath string) error {
	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := api.WriteContextFile(d.ctx, outPath); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// firstPageDict returns the dictionary of page 1
func (d *document) firstPageDict() (types.Dict, error) {
	pageDict, _, _, err := d.ctx.PageDict(1, false)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve first page dict: %w", err)
	}
	if pageDict == nil {
		return nil, fmt.Errorf("first page dict is missing")
	}
	return pageDict, nil
}

// FirstPageContent returns the decoded content stream bytes of page 1,
// concatenating multi-part Contents arrays in order
func (d *document) FirstPageContent() ([]byte, error) {
	pageDict, err := d.firstPageDict()
	if err != nil {
		return nil, err
	}

	contentsObj, found := pageDict.Find("Contents")
	if !found {
		return nil, fmt.Errorf("first page has no content stream")
	}

	var buf bytes.Buffer

	appendStream := func(o types.Object) error {
		sd, _, err := d.ctx.DereferenceStreamDict(o)
		if err != nil {
			return fmt.Errorf("failed to dereference content stream: %w", err)
		}
		if sd == nil {
			return nil
		}
		if err := sd.Decode(); err != nil {
			return fmt.Errorf("failed to decode content stream: %w", err)
		}
		buf.Write(sd.Content)
		buf.WriteByte('\n')
		return nil
	}

	switch obj := contentsObj.(type) {
	case types.Array:
		for _, o := range obj {
			if err := appendStream(o); err != nil {
				return nil, err
			}
		}
	default:
		// Contents may itself be an indirect ref to an array
		if resolved, err := d.ctx.Dereference(contentsObj); err == nil {
			if arr, ok := resolved.(types.Array); ok {
				for _, o := range arr {
					if err := appendStream(o); err != nil {
						return nil, err
					}
				}
				break
			}
		}
		if err := appendStream(contentsObj); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// SetFirstPageContent replaces page 1's Contents with a single new stream
func (d *document) SetFirstPageContent(content []byte) error {
	pageDict, err := d.firstPageDict()
	if err != nil {
		return err
	}

	ir, err := d.newContentStream(content)
	if err != nil {
		return err
	}

	pageDict.Update("Contents", *ir)
	return nil
}

// AppendFirstPageContent appends drawing operations after page 1's existing
// content. The original streams are bracketed with q/Q so whatever graphics
// state they leave behind cannot displace the overlay.
func (d *document) AppendFirstPageContent(content []byte) error {
	pageDict, err := d.firstPageDict()
	if err != nil {
		return err
	}

	contentsObj, found := pageDict.Find("Contents")
	if !found {
		return fmt.Errorf("first page has no content stream")
	}

	var existing types.Array
	if resolved, err := d.ctx.Dereference(contentsObj); err == nil {
		if arr, ok := resolved.(types.Array); ok {
			existing = arr
		}
	}
	if existing == nil {
		existing = types.Array{contentsObj}
	}

	pushIR, err := d.newContentStream([]byte("q\n"))
	if err != nil {
		return err
	}

	var overlay bytes.Buffer
	overlay.WriteString("Q\n")
	overlay.Write(content)
	overlayIR, err := d.newContentStream(overlay.Bytes())
	if err != nil {
		return err
	}

	updated := make(types.Array, 0, len(existing)+2)
	updated = append(updated, *pushIR)
	updated = append(updated, existing...)
	updated = append(updated, *overlayIR)

	pageDict.Update("Contents", updated)
	return nil
}

// newContentStream creates a flate-encoded stream object for buf and
// registers it in the xref table
func (d *document) newContentStream(buf []byte) (*types.IndirectRef, error) {
	sd, err := d.ctx.XRefTable.NewStreamDictForBuf(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create content stream dict: %w", err)
	}
	if err := sd.Encode(); err != nil {
		return nil, fmt.Errorf("failed to encode content stream: %w", err)
	}

	ir, err := d.ctx.IndRefForNewObject(*sd)
	if err != nil {
		return nil, fmt.Errorf("failed to register content stream: %w", err)
	}
	return ir, nil
}

// EnsureOverlayFont registers a standard Helvetica font under
// overlayFontName in page 1's font resources, creating the resource
// dictionaries if the page has none of its own
func (d *document) EnsureOverlayFont() error {
	pageDict, err := d.firstPageDict()
	if err != nil {
		return err
	}

	var resDict types.Dict
	if resObj, found := pageDict.Find("Resources"); found {
		resDict, err = d.ctx.DereferenceDict(resObj)
		if err != nil {
			return fmt.Errorf("failed to dereference page resources: %w", err)
		}
	}
	if resDict == nil {
		resDict = types.Dict{}
		pageDict.Update("Resources", resDict)
	}

	var fontDict types.Dict
	if fontObj, found := resDict.Find("Font"); found {
		fontDict, err = d.ctx.DereferenceDict(fontObj)
		if err != nil {
			return fmt.Errorf("failed to dereference font resources: %w", err)
		}
	}
	if fontDict == nil {
		fontDict = types.Dict{}
		resDict.Update("Font", fontDict)
	}

	if _, found := fontDict.Find(overlayFontName); found {
		return nil
	}

	helvetica := types.Dict(map[string]types.Object{
		"Type":     types.Name("Font"),
		"Subtype":  types.Name("Type1"),
		"BaseFont": types.Name("Helvetica"),
		"Encoding": types.Name("WinAnsiEncoding"),
	})

	ir, err := d.ctx.IndRefForNewObject(helvetica)
	if err != nil {
		return fmt.Errorf("failed to register overlay font: %w", err)
	}

	fontDict.Update(overlayFontName, *ir)
	return nil
}
