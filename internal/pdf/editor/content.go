package editor

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Content stream helpers: building overlay drawing operations and rewriting
// text-showing string literals in place.

// whiteRectOps paints an opaque white rectangle over r
func whiteRectOps(r Rect) string {
	return fmt.Sprintf("q\n1 1 1 rg\n%.2f %.2f %.2f %.2f re\nf\nQ\n",
		r.X0, r.Y0, r.Width(), r.Height())
}

// textOps draws text at baseline point (x, y) using the overlay font
func textOps(size float64, c Color, x, y float64, text string) string {
	return fmt.Sprintf("q\nBT\n/%s %.2f Tf\n%.4f %.4f %.4f rg\n%.2f %.2f Td\n(%s) Tj\nET\nQ\n",
		overlayFontName, size, c.R, c.G, c.B, x, y, escapeTextString(text))
}

// escapeTextString escapes a string for use inside a PDF literal
func escapeTextString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '(', ')':
			b.WriteByte('\\')
			b.WriteByte(s[i])
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// decodeLiteral decodes the raw bytes between the parentheses of a PDF
// string literal (escapes and octal codes resolved)
func decodeLiteral(raw []byte) string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(raw) {
			break
		}
		switch raw[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case '(', ')', '\\':
			b.WriteByte(raw[i])
		case '0', '1', '2', '3', '4', '5', '6', '7':
			// Up to three octal digits
			end := i + 1
			for end < len(raw) && end < i+3 && raw[end] >= '0' && raw[end] <= '7' {
				end++
			}
			if v, err := strconv.ParseUint(string(raw[i:end]), 8, 16); err == nil {
				b.WriteByte(byte(v))
			}
			i = end - 1
		case '\n':
			// Line continuation, emits nothing
		default:
			b.WriteByte(raw[i])
		}
	}
	return b.String()
}

// literal is a PDF string literal found in a content stream. Start points
// at the opening parenthesis, End one past the closing one.
type literal struct {
	Start int
	End   int
	Raw   []byte
}

// scanLiterals walks the content stream and collects every string literal,
// honoring escapes and balanced nested parentheses
func scanLiterals(content []byte) []literal {
	var lits []literal

	for i := 0; i < len(content); i++ {
		if content[i] != '(' {
			continue
		}

		depth := 1
		j := i + 1
		for j < len(content) && depth > 0 {
			switch content[j] {
			case '\\':
				j++ // skip escaped char
			case '(':
				depth++
			case ')':
				depth--
			}
			j++
		}
		if depth != 0 {
			break // unbalanced literal, stop scanning
		}

		lits = append(lits, literal{Start: i, End: j, Raw: content[i+1 : j-1]})
		i = j - 1
	}

	return lits
}

// replaceInLiterals rewrites every string literal whose decoded text
// contains old, substituting new. Returns the rewritten stream and the
// number of literals changed.
func replaceInLiterals(content []byte, old, new string) ([]byte, int) {
	lits := scanLiterals(content)

	var out bytes.Buffer
	count := 0
	prev := 0

	for _, lit := range lits {
		decoded := decodeLiteral(lit.Raw)
		if !strings.Contains(decoded, old) {
			continue
		}

		out.Write(content[prev:lit.Start])
		out.WriteByte('(')
		out.WriteString(escapeTextString(strings.ReplaceAll(decoded, old, new)))
		out.WriteByte(')')
		prev = lit.End
		count++
	}

	if count == 0 {
		return content, 0
	}

	out.Write(content[prev:])
	return out.Bytes(), count
}

// replaceInTJArrays rewrites TJ show-text arrays whose joined literals
// contain old. The array collapses to a single literal; kerning between the
// original fragments is dropped, which is acceptable for a phrase that is
// being redrawn anyway.
func replaceInTJArrays(content []byte, old, new string) ([]byte, int) {
	var out bytes.Buffer
	count := 0
	prev := 0

	for i := 0; i < len(content); i++ {
		if content[i] != '[' {
			continue
		}

		arrEnd, joined, ok := parseTJArray(content, i)
		if !ok {
			continue
		}

		// The array must be followed by the TJ operator
		opEnd := arrEnd
		for opEnd < len(content) && isPDFWhitespace(content[opEnd]) {
			opEnd++
		}
		if opEnd+2 > len(content) || content[opEnd] != 'T' || content[opEnd+1] != 'J' {
			continue
		}
		opEnd += 2

		if !strings.Contains(joined, old) {
			i = arrEnd - 1
			continue
		}

		out.Write(content[prev:i])
		out.WriteByte('(')
		out.WriteString(escapeTextString(strings.ReplaceAll(joined, old, new)))
		out.WriteString(") Tj")
		prev = opEnd
		count++
		i = opEnd - 1
	}

	if count == 0 {
		return content, 0
	}

	out.Write(content[prev:])
	return out.Bytes(), count
}

// parseTJArray parses a [ ... ] array starting at content[start] and joins
// its string literal elements. Returns the index just past ']' and whether
// the array consisted only of literals, numbers and whitespace.
func parseTJArray(content []byte, start int) (end int, joined string, ok bool) {
	var b strings.Builder

	i := start + 1
	for i < len(content) {
		c := content[i]
		switch {
		case c == ']':
			return i + 1, b.String(), true
		case c == '(':
			depth := 1
			j := i + 1
			for j < len(content) && depth > 0 {
				switch content[j] {
				case '\\':
					j++
				case '(':
					depth++
				case ')':
					depth--
				}
				j++
			}
			if depth != 0 {
				return 0, "", false
			}
			b.WriteString(decodeLiteral(content[i+1 : j-1]))
			i = j
		case isPDFWhitespace(c), c == '-', c == '+', c == '.', c >= '0' && c <= '9':
			i++
		default:
			// Hex strings, names or anything else disqualify the array
			return 0, "", false
		}
	}

	return 0, "", false
}

// isPDFWhitespace reports whether c is PDF whitespace
func isPDFWhitespace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == 0
}

// Fill color operators preceding a text-showing op. The last one before the
// phrase wins, mirroring how a PDF renderer tracks graphics state.
var (
	rgbFillRe  = regexp.MustCompile(`(\d*\.?\d+)\s+(\d*\.?\d+)\s+(\d*\.?\d+)\s+rg`)
	grayFillRe = regexp.MustCompile(`(\d*\.?\d+)\s+g\b`)
)

// scanFillColor captures the fill color active when the literal containing
// phrase is drawn. Returns false when the phrase is not found in any
// literal or no fill operator precedes it.
func scanFillColor(content []byte, phrase string) (Color, bool) {
	pos := -1
	for _, lit := range scanLiterals(content) {
		if strings.Contains(decodeLiteral(lit.Raw), phrase) {
			pos = lit.Start
			break
		}
	}
	if pos < 0 {
		return Color{}, false
	}

	head := content[:pos]

	var c Color
	found := false
	lastIdx := -1

	if m := rgbFillRe.FindAllSubmatchIndex(head, -1); len(m) > 0 {
		last := m[len(m)-1]
		r, _ := strconv.ParseFloat(string(head[last[2]:last[3]]), 64)
		g, _ := strconv.ParseFloat(string(head[last[4]:last[5]]), 64)
		b, _ := strconv.ParseFloat(string(head[last[6]:last[7]]), 64)
		c = Color{R: r, G: g, B: b}
		found = true
		lastIdx = last[0]
	}

	if m := grayFillRe.FindAllSubmatchIndex(head, -1); len(m) > 0 {
		last := m[len(m)-1]
		if last[0] > lastIdx {
			v, _ := strconv.ParseFloat(string(head[last[2]:last[3]]), 64)
			c = Color{R: v, G: v, B: v}
			found = true
		}
	}

	return c, found
}
