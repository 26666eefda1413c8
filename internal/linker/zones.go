package linker

import (
	"log/slog"
	"regexp"
	"strings"
)

var (
	urlZoneRe      = regexp.MustCompile(`https?://[^\s<>"\)\]]+`)
	htmlAnchorRe   = regexp.MustCompile(`<a\b[^>]*>.*?</a>`)
	inlineCodeRe   = regexp.MustCompile("`[^`]+`")
	wikilinkZoneRe = regexp.MustCompile(`\[\[[^\[\]]*?\]\]`)
	regularLinkRe  = regexp.MustCompile(`\[[^\[\]]*\]\([^)]*\)`)
	refDefZoneRe   = regexp.MustCompile(`\[[^\[\]]+\]:\s*\S+(?:\s+"[^"]*")?`)
	refDefLineRe   = regexp.MustCompile(`^\s*\[[^\[\]]+\]:`)

	templateVarRes = []*regexp.Regexp{
		regexp.MustCompile(`\$\{[^}]*\}`),
		regexp.MustCompile(`\{\{[^}]*\}\}`),
		regexp.MustCompile(`<%[-=#]?.*?%>`),
	}
)

// inlinePatterns are the line-local zones evaluated outside fences and
// frontmatter. Every pattern may fire multiple times per line.
var inlinePatterns = []struct {
	re   *regexp.Regexp
	zone ZoneType
}{
	{urlZoneRe, ZoneURL},
	{htmlAnchorRe, ZoneHTMLTag},
	{inlineCodeRe, ZoneInlineCode},
	{wikilinkZoneRe, ZoneWikilink},
	{regularLinkRe, ZoneRegularLink},
}

// blockTracker carries the multi-line scanner state: fenced code blocks and
// the leading frontmatter block. Only the very first line of the document
// can open frontmatter; once the block has closed, later lone --- lines are
// horizontal rules and never re-trigger it.
type blockTracker struct {
	inFence    bool
	fenceStart int

	inFrontmatter    bool
	frontmatterStart int
	frontmatterDone  bool
}

// feed advances the tracker by one line. It returns a completed block zone
// when the line closes one, and inBlock=true when the line belongs to a
// fence or frontmatter block (including its delimiters), meaning no other
// zone types may be evaluated on it.
func (t *blockTracker) feed(n int, line string) (zone *TextRange, inBlock bool) {
	trimmed := strings.TrimSpace(line)

	if t.inFrontmatter {
		if trimmed == "---" {
			z := TextRange{
				StartLine: t.frontmatterStart,
				StartCol:  0,
				EndLine:   n,
				EndCol:    len(line),
				Type:      ZoneFrontmatter,
			}
			t.inFrontmatter = false
			t.frontmatterDone = true
			return &z, true
		}
		return nil, true
	}

	if t.inFence {
		if strings.HasPrefix(trimmed, "```") {
			z := TextRange{
				StartLine: t.fenceStart,
				StartCol:  0,
				EndLine:   n,
				EndCol:    len(line),
				Type:      ZoneCodeBlock,
			}
			t.inFence = false
			return &z, true
		}
		return nil, true
	}

	if n == 1 && trimmed == "---" && !t.frontmatterDone {
		t.inFrontmatter = true
		t.frontmatterStart = n
		return nil, true
	}

	if strings.HasPrefix(trimmed, "```") {
		t.inFence = true
		t.fenceStart = n
		return nil, true
	}

	return nil, false
}

// ZoneExtractor scans raw document text and produces the exclusion zones
// that candidate discovery must skip. Zones may overlap; callers treat
// containment as an OR across all zones.
type ZoneExtractor struct {
	excludeTables bool
	extra         []*regexp.Regexp
}

// NewZoneExtractor builds an extractor. extraPatterns are caller-supplied
// regular expressions merged into the zone scan; a pattern that fails to
// compile is logged and skipped, the rest still apply.
func NewZoneExtractor(excludeTables bool, extraPatterns []string, logger *slog.Logger) *ZoneExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	ex := &ZoneExtractor{excludeTables: excludeTables}
	for _, p := range extraPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			logger.Warn("zones: skipping invalid exclude pattern",
				slog.String("pattern", p),
				slog.String("error", err.Error()))
			continue
		}
		ex.extra = append(ex.extra, re)
	}
	return ex
}

// Extract returns every exclusion zone in text, in scan order. An
// unterminated fence or frontmatter block emits no zone; scanning simply
// ends at end-of-input.
func (e *ZoneExtractor) Extract(text string) []TextRange {
	var zones []TextRange
	var tracker blockTracker

	for i, line := range strings.Split(text, "\n") {
		n := i + 1

		if z, inBlock := tracker.feed(n, line); inBlock {
			if z != nil {
				zones = append(zones, *z)
			}
			continue
		}

		zones = append(zones, e.lineZones(n, line)...)
	}

	return zones
}

// lineZones evaluates every line-local pattern independently; all of them
// may fire zero or more times on the same line.
func (e *ZoneExtractor) lineZones(n int, line string) []TextRange {
	var zones []TextRange
	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(trimmed, "# ") {
		zones = append(zones, lineSpan(n, 0, len(line), ZoneH1Header))
	}

	// Reference definitions are only recognised on lines that start with a
	// label, but a qualifying line is scanned in full so several packed
	// definitions each get their own zone.
	if refDefLineRe.MatchString(line) {
		for _, m := range refDefZoneRe.FindAllStringIndex(line, -1) {
			zones = append(zones, lineSpan(n, m[0], m[1], ZoneLinkRefDef))
		}
	}

	if e.excludeTables && strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|") && len(trimmed) > 1 {
		zones = append(zones, lineSpan(n, 0, len(line), ZoneTable))
	}

	for _, p := range inlinePatterns {
		for _, m := range p.re.FindAllStringIndex(line, -1) {
			zones = append(zones, lineSpan(n, m[0], m[1], p.zone))
		}
	}

	for _, re := range templateVarRes {
		for _, m := range re.FindAllStringIndex(line, -1) {
			zones = append(zones, lineSpan(n, m[0], m[1], ZoneTemplateVar))
		}
	}

	for _, re := range e.extra {
		for _, m := range re.FindAllStringIndex(line, -1) {
			zones = append(zones, lineSpan(n, m[0], m[1], ZoneCustom))
		}
	}

	return zones
}
