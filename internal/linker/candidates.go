package linker

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Candidate is a located match of a target entry in a document's text, not
// yet committed as a link.
type Candidate struct {
	Text           string       `json:"text"`             // matched literal substring, original case
	TargetID       string       `json:"target_id"`        // owning document id
	SuggestedAlias string       `json:"suggested_alias"`  // display label for the produced link
	Position       TextPosition `json:"position"`
	Confidence     float64      `json:"confidence"`
	Variation      SourceType   `json:"variation_type"`
}

// FindCandidates locates every case-insensitive, word-boundary-delimited
// occurrence of an index entry in text, skipping entries owned by
// currentID (no self-links) and occurrences inside any exclusion zone.
//
// The same span is emitted at most once per target document even when
// several entry variants match it. The suggested alias is always the
// matched literal text, so produced links read exactly like the prose they
// replace. Results are ordered by (line, column, target id).
func FindCandidates(text string, index []TargetEntry, zones []TextRange, currentID string) []Candidate {
	type spanKey struct {
		line, start, end int
		target           string
	}
	seen := make(map[spanKey]struct{})
	var out []Candidate

	for i, line := range strings.Split(text, "\n") {
		lineNum := i + 1
		lower, toOrig := foldLine(line)

		for _, entry := range index {
			if entry.DocID == currentID {
				continue
			}
			for _, lstart := range wordMatches(lower, entry.Text) {
				start := toOrig[lstart]
				end := toOrig[lstart+len(entry.Text)]
				pos := TextPosition{Line: lineNum, ColStart: start, ColEnd: end}
				if inAnyZone(pos, zones) {
					continue
				}
				key := spanKey{lineNum, start, end, entry.DocID}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}

				matched := line[start:end]
				out = append(out, Candidate{
					Text:           matched,
					TargetID:       entry.DocID,
					SuggestedAlias: matched,
					Position:       pos,
					Confidence:     entry.Confidence,
					Variation:      entry.Source,
				})
			}
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		pa, pb := out[a].Position, out[b].Position
		if pa.Line != pb.Line {
			return pa.Line < pb.Line
		}
		if pa.ColStart != pb.ColStart {
			return pa.ColStart < pb.ColStart
		}
		if pa.ColEnd != pb.ColEnd {
			return pa.ColEnd < pb.ColEnd
		}
		return out[a].TargetID < out[b].TargetID
	})

	return out
}

// foldLine lowercases line one rune at a time and returns the folded
// string plus a byte-offset map back into the original. Lowercasing can
// change a rune's UTF-8 width ('İ' shrinks, 'Ⱥ' grows), so offsets into
// the folded text cannot be used on the original directly. The map has
// len(folded)+1 entries: for a match [s,e) in the folded text,
// toOrig[s] and toOrig[e] bound the same run of runes in the original.
func foldLine(line string) (string, []int) {
	var b strings.Builder
	b.Grow(len(line))
	toOrig := make([]int, 0, len(line)+1)
	for i, r := range line {
		lr := unicode.ToLower(r)
		for n := utf8.RuneLen(lr); n > 0; n-- {
			toOrig = append(toOrig, i)
		}
		b.WriteRune(lr)
	}
	toOrig = append(toOrig, len(line))
	return b.String(), toOrig
}

// wordMatches returns the byte offset of every occurrence of needle in
// line that is delimited by word boundaries on both sides. Both arguments
// must already be lowercased.
func wordMatches(line, needle string) []int {
	if needle == "" {
		return nil
	}
	var out []int
	from := 0
	for {
		i := strings.Index(line[from:], needle)
		if i < 0 {
			return out
		}
		start := from + i
		end := start + len(needle)
		if boundaryBefore(line, start) && boundaryAfter(line, end) {
			out = append(out, start)
		}
		from = start + 1
	}
}
