package render

import (
	"bytes"
	"fmt"
	"strings"
)

// The encoder writes a minimal PDF 1.4 file by hand: catalog, page tree,
// the three core Helvetica fonts and one uncompressed content stream per
// page. No external library in use anywhere in this codebase writes PDF, so
// the file structure is produced directly, the same way the DOCX pipeline
// this renderer replaced produced its XML.

const pdfHeader = "%PDF-1.4\n"

var fontResources = []struct {
	Res  string
	Base string
}{
	{"F1", "Helvetica"},
	{"F2", "Helvetica-Bold"},
	{"F3", "Helvetica-Oblique"},
}

func fontRes(s style) string {
	switch {
	case s.Bold:
		return "F2"
	case s.Italic:
		return "F3"
	default:
		return "F1"
	}
}

// estimateTextWidth approximates the rendered width of text using an average
// glyph width. It only drives right alignment and centering, so a rough
// estimate is acceptable.
func estimateTextWidth(text string, s style) float64 {
	factor := 0.5
	if s.Bold {
		factor = 0.53
	}
	return float64(len(text)) * s.Size * factor
}

func escapePDFText(text string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(text)
}

func contentStream(p page) []byte {
	var buf bytes.Buffer
	for _, t := range p.Texts {
		if t.Text == "" {
			continue
		}
		x := t.X
		switch {
		case t.Right:
			x = t.X + t.Width - estimateTextWidth(t.Text, t.Style)
		case t.Center:
			x = t.X + (t.Width-estimateTextWidth(t.Text, t.Style))/2
		}
		if x < t.X {
			x = t.X
		}
		y := pageHeight - t.Y
		fmt.Fprintf(&buf, "BT /%s %.1f Tf %.2f %.2f Td (%s) Tj ET\n",
			fontRes(t.Style), t.Style.Size, x, y, escapePDFText(t.Text))
	}
	for _, r := range p.Rules {
		y := pageHeight - r.Y
		fmt.Fprintf(&buf, "0.6 w %.2f %.2f m %.2f %.2f l S\n", r.X1, y, r.X2, y)
	}
	return buf.Bytes()
}

// encodePDF serializes the paginated document into PDF bytes with a correct
// cross-reference table.
func encodePDF(doc document) []byte {
	type object struct {
		id   int
		body []byte
	}

	var objects []object
	add := func(body string) int {
		id := len(objects) + 1
		objects = append(objects, object{id: id, body: []byte(body)})
		return id
	}

	catalogID := add("") // filled once the page tree id is known
	pagesID := add("")

	fontIDs := make([]int, len(fontResources))
	var fontDict strings.Builder
	for i, f := range fontResources {
		fontIDs[i] = add(fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /%s /Encoding /WinAnsiEncoding >>", f.Base))
		fmt.Fprintf(&fontDict, "/%s %d 0 R ", f.Res, fontIDs[i])
	}

	var pageIDs []int
	for _, p := range doc.Pages {
		stream := contentStream(p)
		contentID := add(fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(stream), stream))
		pageID := add(fmt.Sprintf(
			"<< /Type /Page /Parent %d 0 R /MediaBox [0 0 %.0f %.0f] /Resources << /Font << %s>> >> /Contents %d 0 R >>",
			pagesID, pageWidth, pageHeight, fontDict.String(), contentID))
		pageIDs = append(pageIDs, pageID)
	}

	var kids strings.Builder
	for _, id := range pageIDs {
		fmt.Fprintf(&kids, "%d 0 R ", id)
	}
	objects[catalogID-1].body = []byte(fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesID))
	objects[pagesID-1].body = []byte(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.TrimSpace(kids.String()), len(pageIDs)))

	var out bytes.Buffer
	out.WriteString(pdfHeader)

	offsets := make([]int, len(objects)+1)
	for _, obj := range objects {
		offsets[obj.id] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n%s\nendobj\n", obj.id, obj.body)
	}

	xrefStart := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", len(objects)+1)
	out.WriteString("0000000000 65535 f \n")
	for id := 1; id <= len(objects); id++ {
		fmt.Fprintf(&out, "%010d 00000 n \n", offsets[id])
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, catalogID, xrefStart)

	return out.Bytes()
}
