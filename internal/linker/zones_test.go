package linker

import (
	"strings"
	"testing"
)

func extract(t *testing.T, text string) []TextRange {
	t.Helper()
	return NewZoneExtractor(false, nil, nil).Extract(text)
}

func zonesOfType(zones []TextRange, zt ZoneType) []TextRange {
	var out []TextRange
	for _, z := range zones {
		if z.Type == zt {
			out = append(out, z)
		}
	}
	return out
}

func TestExtract_Frontmatter(t *testing.T) {
	text := "---\ntitle: X\n---\nBody with Target Note.\n"
	fm := zonesOfType(extract(t, text), ZoneFrontmatter)
	if len(fm) != 1 {
		t.Fatalf("frontmatter zones = %d, want 1", len(fm))
	}
	if fm[0].StartLine != 1 || fm[0].EndLine != 3 {
		t.Errorf("frontmatter span = %d..%d, want 1..3", fm[0].StartLine, fm[0].EndLine)
	}
}

func TestExtract_FrontmatterOnlyAtFirstLine(t *testing.T) {
	// A document that starts with body text: later --- lines are
	// horizontal rules and must never open a metadata block.
	text := "Intro line.\n---\nkey: value\n---\nMore text.\n"
	fm := zonesOfType(extract(t, text), ZoneFrontmatter)
	if len(fm) != 0 {
		t.Errorf("frontmatter zones = %v, want none", fm)
	}
}

func TestExtract_SecondDashPairIsHorizontalRule(t *testing.T) {
	text := "---\ntitle: X\n---\nBody.\n---\nnot: frontmatter\n---\n"
	fm := zonesOfType(extract(t, text), ZoneFrontmatter)
	if len(fm) != 1 || fm[0].EndLine != 3 {
		t.Errorf("frontmatter zones = %v, want single 1..3 zone", fm)
	}
}

func TestExtract_CodeBlock(t *testing.T) {
	text := "before\n```go\ncode here\n```\nafter\n"
	cb := zonesOfType(extract(t, text), ZoneCodeBlock)
	if len(cb) != 1 {
		t.Fatalf("code zones = %d, want 1", len(cb))
	}
	if cb[0].StartLine != 2 || cb[0].EndLine != 4 {
		t.Errorf("code span = %d..%d, want 2..4", cb[0].StartLine, cb[0].EndLine)
	}
}

func TestExtract_UnterminatedFenceEmitsNothing(t *testing.T) {
	text := "before\n```\nstill code\n"
	if cb := zonesOfType(extract(t, text), ZoneCodeBlock); len(cb) != 0 {
		t.Errorf("code zones = %v, want none for unterminated fence", cb)
	}
}

func TestExtract_NoOtherZonesInsideFence(t *testing.T) {
	text := "```\n# not a header\n[[not a link]]\n```\n"
	zones := extract(t, text)
	if len(zonesOfType(zones, ZoneH1Header)) != 0 {
		t.Error("h1 zone emitted inside fence")
	}
	if len(zonesOfType(zones, ZoneWikilink)) != 0 {
		t.Error("wikilink zone emitted inside fence")
	}
}

func TestExtract_LineLocalZones(t *testing.T) {
	cases := []struct {
		name string
		line string
		zone ZoneType
	}{
		{"h1", "# Heading One", ZoneH1Header},
		{"url", "see https://example.com/page for details", ZoneURL},
		{"html anchor", `click <a href="x">here</a> now`, ZoneHTMLTag},
		{"inline code", "use `go build` to compile", ZoneInlineCode},
		{"wikilink", "see [[100|Target]] please", ZoneWikilink},
		{"regular link", "read [docs](https://example.com)", ZoneRegularLink},
		{"ref def", `[ref|Ref]: topics/ref.md "Title"`, ZoneLinkRefDef},
		{"dollar template", "value is ${var.name} here", ZoneTemplateVar},
		{"mustache template", "value is {{name}} here", ZoneTemplateVar},
		{"erb template", "value is <%= name %> here", ZoneTemplateVar},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := zonesOfType(extract(t, tc.line), tc.zone)
			if len(got) == 0 {
				t.Fatalf("no %s zone in %q", tc.zone, tc.line)
			}
		})
	}
}

func TestExtract_MultipleRefDefsPerLine(t *testing.T) {
	line := `[a|A]: one.md "One" [b|B]: two.md "Two"`
	got := zonesOfType(extract(t, line), ZoneLinkRefDef)
	if len(got) != 2 {
		t.Fatalf("ref def zones = %d, want 2", len(got))
	}
}

func TestExtract_TableBehindFlag(t *testing.T) {
	line := "| cell one | cell two |"
	if got := zonesOfType(NewZoneExtractor(false, nil, nil).Extract(line), ZoneTable); len(got) != 0 {
		t.Errorf("table zone emitted with exclusion disabled: %v", got)
	}
	if got := zonesOfType(NewZoneExtractor(true, nil, nil).Extract(line), ZoneTable); len(got) != 1 {
		t.Errorf("table zones = %v, want 1 with exclusion enabled", got)
	}
}

func TestExtract_ExtraPatterns(t *testing.T) {
	// The second pattern does not compile and must be skipped without
	// affecting the first.
	ex := NewZoneExtractor(false, []string{`TODO:[^.]*`, `([`}, nil)
	got := zonesOfType(ex.Extract("TODO: fix me. content"), ZoneCustom)
	if len(got) != 1 {
		t.Fatalf("custom zones = %d, want 1", len(got))
	}
	if got[0].StartCol != 0 {
		t.Errorf("custom zone start = %d, want 0", got[0].StartCol)
	}
}

func TestBlockTracker_StateTransitions(t *testing.T) {
	var tr blockTracker

	lines := []string{"---", "title: x", "---", "text", "```", "code", "```", "---"}
	var emitted []ZoneType
	for i, line := range lines {
		z, _ := tr.feed(i+1, line)
		if z != nil {
			emitted = append(emitted, z.Type)
		}
	}
	want := []ZoneType{ZoneFrontmatter, ZoneCodeBlock}
	if len(emitted) != len(want) {
		t.Fatalf("emitted = %v, want %v", emitted, want)
	}
	for i := range want {
		if emitted[i] != want[i] {
			t.Errorf("emitted[%d] = %s, want %s", i, emitted[i], want[i])
		}
	}
	if tr.inFence || tr.inFrontmatter {
		t.Error("tracker should end in normal state")
	}
}

func TestTextRange_Contains(t *testing.T) {
	single := lineSpan(3, 5, 10, ZoneURL)
	multi := TextRange{StartLine: 2, StartCol: 4, EndLine: 5, EndCol: 3, Type: ZoneCodeBlock}

	cases := []struct {
		zone TextRange
		pos  TextPosition
		want bool
	}{
		{single, TextPosition{Line: 3, ColStart: 5, ColEnd: 8}, true},
		{single, TextPosition{Line: 3, ColStart: 9, ColEnd: 12}, true},
		{single, TextPosition{Line: 3, ColStart: 10, ColEnd: 12}, false},
		{single, TextPosition{Line: 3, ColStart: 4, ColEnd: 6}, false},
		{single, TextPosition{Line: 4, ColStart: 5, ColEnd: 8}, false},
		{multi, TextPosition{Line: 3, ColStart: 0, ColEnd: 2}, true},
		{multi, TextPosition{Line: 2, ColStart: 4, ColEnd: 6}, true},
		{multi, TextPosition{Line: 2, ColStart: 3, ColEnd: 6}, false},
		{multi, TextPosition{Line: 5, ColStart: 2, ColEnd: 4}, true},
		{multi, TextPosition{Line: 5, ColStart: 3, ColEnd: 5}, false},
	}
	for i, tc := range cases {
		if got := tc.zone.Contains(tc.pos); got != tc.want {
			t.Errorf("case %d: Contains(%+v) = %v, want %v", i, tc.pos, got, tc.want)
		}
	}
}

func TestExtract_WholeDocument(t *testing.T) {
	doc := strings.Join([]string{
		"---",
		"title: Sample",
		"---",
		"# Sample",
		"Plain prose mentioning things.",
		"| a | b |",
		"```",
		"fenced",
		"```",
	}, "\n")
	zones := extract(t, doc)
	for _, zt := range []ZoneType{ZoneFrontmatter, ZoneH1Header, ZoneCodeBlock} {
		if len(zonesOfType(zones, zt)) != 1 {
			t.Errorf("%s zones = %d, want 1", zt, len(zonesOfType(zones, zt)))
		}
	}
}
