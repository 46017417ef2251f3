package render

// Page geometry in PostScript points. A4 with 2cm margins, matching the
// print surface the templates were designed for.
const (
	pageWidth    = 595.0
	pageHeight   = 842.0
	pageMargin   = 56.0
	contentWidth = pageWidth - 2*pageMargin
	columnGutter = 14.0
)

// style describes how a line of text is drawn.
type style struct {
	Size   float64
	Bold   bool
	Italic bool
}

// line is a single positioned row of text inside a column flow. RightText, if
// set, is drawn right-aligned on the same baseline. Rule draws a horizontal
// rule under the line. Gap is extra vertical space after the line.
type line struct {
	Text      string
	RightText string
	Style     style
	Indent    float64
	Center    bool
	Rule      bool
	Gap       float64
}

// band is one vertical slice of the arranged page flow. A band is either a
// full-width run of lines (Right == nil) or a pair of parallel columns.
// Bands never interleave: pagination may split a band across pages but keeps
// its lines in order.
type band struct {
	Left     []line
	Right    []line
	LeftFrac float64
}

func fullBand(lines []line) band {
	return band{Left: lines}
}

// placedText is a laid-out text run on a page, in top-down coordinates.
type placedText struct {
	X      float64
	Y      float64
	Width  float64
	Text   string
	Style  style
	Center bool
	Right  bool
}

// placedRule is a horizontal rule on a page.
type placedRule struct {
	X1, X2, Y float64
}

type page struct {
	Texts []placedText
	Rules []placedRule
}

type document struct {
	Pages []page
}

// lineHeight returns the vertical advance for a line.
func lineHeight(l line) float64 {
	return l.Style.Size*1.3 + l.Gap
}

// paginate flows bands down the page, breaking to a new page whenever a line
// would cross the bottom margin. Column pairs flow independently but a page
// break restarts both columns at the top of the next page, so section order
// is preserved within each column.
func paginate(bands []band) document {
	doc := document{Pages: []page{{}}}
	y := pageMargin

	newPage := func() {
		doc.Pages = append(doc.Pages, page{})
		y = pageMargin
	}

	cur := func() *page { return &doc.Pages[len(doc.Pages)-1] }

	placeLines := func(lines []line, x, width float64, startY float64) float64 {
		colY := startY
		for _, l := range lines {
			h := lineHeight(l)
			if colY+h > pageHeight-pageMargin {
				newPage()
				colY = pageMargin
			}
			baseline := colY + l.Style.Size
			p := cur()
			if l.Text != "" || l.RightText == "" {
				if l.Center {
					p.Texts = append(p.Texts, placedText{X: x, Y: baseline, Width: width, Text: l.Text, Style: l.Style, Center: true})
				} else {
					p.Texts = append(p.Texts, placedText{X: x + l.Indent, Y: baseline, Width: width - l.Indent, Text: l.Text, Style: l.Style})
				}
			}
			if l.RightText != "" {
				rightStyle := l.Style
				rightStyle.Size = dateSize
				rightStyle.Bold = false
				p.Texts = append(p.Texts, placedText{X: x, Y: baseline, Width: width, Text: l.RightText, Style: rightStyle, Right: true})
			}
			if l.Rule {
				ruleY := baseline + 3
				p.Rules = append(p.Rules, placedRule{X1: x, X2: x + width, Y: ruleY})
			}
			colY += h
		}
		return colY
	}

	for _, b := range bands {
		if b.Right == nil {
			y = placeLines(b.Left, pageMargin, contentWidth, y)
			continue
		}

		frac := b.LeftFrac
		if frac <= 0 || frac >= 1 {
			frac = 0.5
		}
		leftWidth := (contentWidth - columnGutter) * frac
		rightWidth := contentWidth - columnGutter - leftWidth

		startPage := len(doc.Pages) - 1
		startY := y
		leftY := placeLines(b.Left, pageMargin, leftWidth, startY)
		leftPage := len(doc.Pages) - 1

		// The right column starts where the band started; if the left column
		// already broke the page, the right column flows on from there.
		rightStart := startY
		if leftPage != startPage {
			rightStart = pageMargin
		}
		rightY := placeLines(b.Right, pageMargin+leftWidth+columnGutter, rightWidth, rightStart)

		y = rightY
		if len(doc.Pages)-1 == leftPage && leftY > rightY {
			y = leftY
		}
	}

	return doc
}
