package layout

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// pageMargin matches the gap pdfminer's HTML converter leaves above each page.
	pageMargin = 50.0
	// defaultPageHeight is US Letter, used when a page has no MediaBox.
	defaultPageHeight = 792.0
	// glyphs further apart than this many font sizes start a new fragment.
	fragmentGap = 1.0
	// gaps wider than this many font sizes become a space.
	spaceGap = 0.15
)

// PDFSource reads glyph positions straight from a PDF and merges them into
// line fragments with the same offset convention as the HTML converter:
// X is the left edge, Y is the top edge measured down from the first page,
// pages stacked with a margin.
type PDFSource struct{}

// Format returns the source name.
func (PDFSource) Format() string { return "pdf" }

// Extensions returns the file extensions this source reads.
func (PDFSource) Extensions() []string { return []string{".pdf"} }

// Read extracts fragments from every page.
func (PDFSource) Read(r io.Reader) (frags []Fragment, err error) {
	// The PDF library panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			frags, err = nil, fmt.Errorf("reading PDF: %v", rec)
		}
	}()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading PDF: %w", err)
	}
	rd, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}

	offset := 0.0
	for i := 1; i <= rd.NumPage(); i++ {
		page := rd.Page(i)
		if page.V.IsNull() {
			continue
		}
		height := pageHeight(page.V)
		offset += pageMargin
		frags = append(frags, mergeGlyphs(page.Content().Text, height, offset)...)
		offset += height
	}
	if len(frags) == 0 {
		return nil, fmt.Errorf("no text found in PDF")
	}
	return frags, nil
}

// pageHeight reads the MediaBox, following the page tree for inherited boxes.
func pageHeight(v pdf.Value) float64 {
	for depth := 0; !v.IsNull() && depth < 32; depth++ {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			if h := box.Index(3).Float64() - box.Index(1).Float64(); h > 0 {
				return h
			}
		}
		v = v.Key("Parent")
	}
	return defaultPageHeight
}

// mergeGlyphs joins glyphs that sit on the same baseline and are close
// together into fragments. Glyphs are first put in reading order.
func mergeGlyphs(glyphs []pdf.Text, height, offset float64) []Fragment {
	sorted := make([]pdf.Text, 0, len(glyphs))
	for _, g := range glyphs {
		if g.S != "" {
			sorted = append(sorted, g)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		yi, yj := math.Round(sorted[i].Y), math.Round(sorted[j].Y)
		if yi != yj {
			return yi > yj
		}
		return sorted[i].X < sorted[j].X
	})

	var frags []Fragment
	var sb strings.Builder
	var start, prev pdf.Text
	flush := func() {
		if text := strings.TrimSpace(sb.String()); text != "" {
			top := offset + height - (start.Y + start.FontSize)
			frags = append(frags, Fragment{
				Text: text,
				X:    int(math.Round(start.X)),
				Y:    int(math.Round(top)),
			})
		}
		sb.Reset()
	}

	for i, g := range sorted {
		if i > 0 {
			size := math.Max(prev.FontSize, 1)
			gap := g.X - (prev.X + prev.W)
			sameLine := math.Round(g.Y) == math.Round(prev.Y)
			switch {
			case !sameLine || gap > fragmentGap*size:
				flush()
				start = g
			case gap > spaceGap*size && !strings.HasSuffix(sb.String(), " "):
				sb.WriteByte(' ')
			}
		} else {
			start = g
		}
		sb.WriteString(g.S)
		prev = g
	}
	flush()
	return frags
}
