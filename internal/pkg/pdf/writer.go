// Package pdf writes plain text reports as multi-page PDF 1.4 documents using
// the built-in Type1 fonts, so no font files are embedded.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const (
	pageWidth    = 595
	pageHeight   = 842
	marginLeft   = 50
	marginTop    = 792
	marginBottom = 50

	// Courier advances 0.6em, so 9pt fits 91 columns across the text area.
	bodySize     = 9
	bodyLeading  = 12
	bodyColumns  = 90
	headingSize  = 13
	titleSize    = 16
	headingSpace = 22
)

type style int

const (
	styleBody style = iota
	styleHeading
	styleTitle
)

type line struct {
	style style
	text  string
}

// Document accumulates lines and lays them out on A4 pages.
type Document struct {
	lines []line
}

func New() *Document {
	return &Document{}
}

func (d *Document) Title(text string) *Document {
	d.lines = append(d.lines, line{style: styleTitle, text: text})
	return d
}

func (d *Document) Heading(text string) *Document {
	d.lines = append(d.lines, line{style: styleHeading, text: text})
	return d
}

// Text adds monospaced body text; long lines wrap at word boundaries.
func (d *Document) Text(text string) *Document {
	for _, l := range wrap(text, bodyColumns) {
		d.lines = append(d.lines, line{style: styleBody, text: l})
	}
	return d
}

func (d *Document) Blank() *Document {
	d.lines = append(d.lines, line{style: styleBody})
	return d
}

func (l line) font() (string, int, int) {
	switch l.style {
	case styleTitle:
		return "F1", titleSize, headingSpace + 6
	case styleHeading:
		return "F1", headingSize, headingSpace
	default:
		return "F2", bodySize, bodyLeading
	}
}

// paginate splits content into per-page content streams.
func (d *Document) paginate() ([]string, error) {
	var pages []string
	var page strings.Builder
	y := marginTop

	for _, l := range d.lines {
		font, size, leading := l.font()
		if y-leading < marginBottom && page.Len() > 0 {
			pages = append(pages, page.String())
			page.Reset()
			y = marginTop
		}
		y -= leading
		if l.text == "" {
			continue
		}
		encoded, err := encode(l.text)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&page, "BT\n/%s %d Tf\n%d %d Td\n(%s) Tj\nET\n", font, size, marginLeft, y, encoded)
	}
	if page.Len() > 0 || len(pages) == 0 {
		pages = append(pages, page.String())
	}
	return pages, nil
}

// Bytes renders the document. An empty document yields one blank page.
func (d *Document) Bytes() ([]byte, error) {
	pages, err := d.paginate()
	if err != nil {
		return nil, err
	}

	// 1 catalog, 2 pages, 3-4 fonts, then a page and content object per page
	const firstPageObj = 5
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", firstPageObj+i*2)
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold /Encoding /WinAnsiEncoding >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /WinAnsiEncoding >>",
	}
	for i, stream := range pages {
		contentObj := firstPageObj + i*2 + 1
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Resources << /Font << /F1 3 0 R /F2 4 0 R >> >> /Contents %d 0 R >>", pageWidth, pageHeight, contentObj),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects))

	for i, obj := range objects {
		offsets = append(offsets, out.Len())
		fmt.Fprintf(&out, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefStart := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", len(objects)+1)
	out.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&out, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(objects)+1, xrefStart)

	return out.Bytes(), nil
}

var winAnsi = encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())

// encode converts text to WinAnsi and escapes PDF string delimiters.
func encode(text string) (string, error) {
	b, err := winAnsi.Bytes([]byte(text))
	if err != nil {
		return "", fmt.Errorf("failed to encode pdf text: %w", err)
	}
	return escape(string(b)), nil
}

func escape(v string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)", "\r", "", "\n", " ")
	return replacer.Replace(v)
}

func wrap(text string, width int) []string {
	if utf8.RuneCountInString(text) <= width {
		return []string{text}
	}

	var lines []string
	var current []rune
	for _, word := range strings.Fields(text) {
		w := []rune(word)
		for len(w) > width {
			if len(current) > 0 {
				lines = append(lines, string(current))
				current = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(current) == 0:
			current = w
		case len(current)+1+len(w) <= width:
			current = append(append(current, ' '), w...)
		default:
			lines = append(lines, string(current))
			current = w
		}
	}
	if len(current) > 0 {
		lines = append(lines, string(current))
	}
	return lines
}
