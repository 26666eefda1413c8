package linker

// ZoneType classifies a region of a document that candidate discovery must
// never touch.
type ZoneType string

// Zone types recognised by the extractor.
const (
	ZoneFrontmatter ZoneType = "frontmatter"
	ZoneCodeBlock   ZoneType = "code_block"
	ZoneWikilink    ZoneType = "wikilink"
	ZoneRegularLink ZoneType = "regular_link"
	ZoneLinkRefDef  ZoneType = "link_ref_def"
	ZoneH1Header    ZoneType = "h1_header"
	ZoneTable       ZoneType = "table"
	ZoneURL         ZoneType = "url"
	ZoneHTMLTag     ZoneType = "html_tag"
	ZoneInlineCode  ZoneType = "inline_code"
	ZoneTemplateVar ZoneType = "template_variable"
	ZoneCustom      ZoneType = "custom"
)

// TextPosition locates a span on a single line. Lines are 1-based, columns
// are 0-based byte offsets, and the span is half-open: [ColStart, ColEnd).
type TextPosition struct {
	Line     int `json:"line"`
	ColStart int `json:"col_start"`
	ColEnd   int `json:"col_end"`
}

// Len returns the byte length of the span.
func (p TextPosition) Len() int { return p.ColEnd - p.ColStart }

// Overlaps reports whether two positions on the same line intersect.
func (p TextPosition) Overlaps(o TextPosition) bool {
	return p.Line == o.Line && p.ColStart < o.ColEnd && o.ColStart < p.ColEnd
}

// TextRange is an exclusion zone spanning one or more lines. Columns are
// half-open byte offsets as in TextPosition.
type TextRange struct {
	StartLine int      `json:"start_line"`
	StartCol  int      `json:"start_col"`
	EndLine   int      `json:"end_line"`
	EndCol    int      `json:"end_col"`
	Type      ZoneType `json:"type"`
}

// Contains reports whether the start of pos falls inside the zone.
//
// Single-line zones contain a position when its start column lies in
// [StartCol, EndCol). Multi-line zones contain every position on interior
// lines, positions at or past StartCol on the first line, and positions
// before EndCol on the last line.
func (r TextRange) Contains(pos TextPosition) bool {
	if r.StartLine == r.EndLine {
		return pos.Line == r.StartLine && pos.ColStart >= r.StartCol && pos.ColStart < r.EndCol
	}
	switch {
	case pos.Line > r.StartLine && pos.Line < r.EndLine:
		return true
	case pos.Line == r.StartLine:
		return pos.ColStart >= r.StartCol
	case pos.Line == r.EndLine:
		return pos.ColStart < r.EndCol
	default:
		return false
	}
}

// lineSpan builds a single-line zone covering [start, end) on line n.
func lineSpan(n, start, end int, t ZoneType) TextRange {
	return TextRange{StartLine: n, StartCol: start, EndLine: n, EndCol: end, Type: t}
}

// inAnyZone reports whether pos is excluded by at least one zone.
func inAnyZone(pos TextPosition, zones []TextRange) bool {
	for _, z := range zones {
		if z.Contains(pos) {
			return true
		}
	}
	return false
}
