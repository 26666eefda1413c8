package linker

import (
	"fmt"
	"sort"
	"strings"
)

// Replacement is a committed rewrite instruction for one candidate.
type Replacement struct {
	Original    string       `json:"original"`
	Replacement string       `json:"replacement"`
	Position    TextPosition `json:"position"`
	TargetID    string       `json:"target_id"`
	Priority    int          `json:"priority"` // discovery order, 0-based
}

// RewriteResult is the outcome of applying replacements to one document.
type RewriteResult struct {
	Text    string        `json:"text"`
	Applied []Replacement `json:"applied"`
	Skipped []Replacement `json:"skipped"`
}

// formatLink renders the wiki-link syntax for a target id and display
// alias: [[id]] when the alias is empty or equals the id, [[id|alias]]
// otherwise.
func formatLink(targetID, alias string) string {
	if alias == "" || alias == targetID {
		return fmt.Sprintf("[[%s]]", targetID)
	}
	return fmt.Sprintf("[[%s|%s]]", targetID, alias)
}

// ApplyReplacements rewrites original, converting each resolved candidate
// into a wiki link.
//
// When more than maxLinks candidates are eligible (maxLinks > 0), the
// first maxLinks in discovery order are applied and the remainder is
// reported as skipped rather than silently dropped.
//
// Replacements are applied in (line, column) DESCENDING order: writing a
// later match first leaves the recorded offsets of every earlier match
// intact, where forward application would shift them and corrupt the
// line. Immediately before each write the current substring at the
// recorded span is compared byte-for-byte with the candidate's original
// text; on any mismatch the replacement is skipped instead of written.
func ApplyReplacements(original string, resolved []Candidate, maxLinks int) RewriteResult {
	replacements := make([]Replacement, 0, len(resolved))
	for i, c := range resolved {
		replacements = append(replacements, Replacement{
			Original:    c.Text,
			Replacement: formatLink(c.TargetID, c.SuggestedAlias),
			Position:    c.Position,
			TargetID:    c.TargetID,
			Priority:    i,
		})
	}

	var skipped []Replacement
	if maxLinks > 0 && len(replacements) > maxLinks {
		skipped = append(skipped, replacements[maxLinks:]...)
		replacements = replacements[:maxLinks]
	}

	ordered := make([]Replacement, len(replacements))
	copy(ordered, replacements)
	sort.SliceStable(ordered, func(a, b int) bool {
		pa, pb := ordered[a].Position, ordered[b].Position
		if pa.Line != pb.Line {
			return pa.Line > pb.Line
		}
		return pa.ColStart > pb.ColStart
	})

	lines := strings.Split(original, "\n")
	var applied []Replacement

	for _, r := range ordered {
		idx := r.Position.Line - 1
		if idx < 0 || idx >= len(lines) {
			skipped = append(skipped, r)
			continue
		}
		line := lines[idx]
		if r.Position.ColStart < 0 || r.Position.ColEnd > len(line) {
			skipped = append(skipped, r)
			continue
		}
		// Guard against residual position drift: the text at the recorded
		// span must still be exactly what was matched.
		if line[r.Position.ColStart:r.Position.ColEnd] != r.Original {
			skipped = append(skipped, r)
			continue
		}
		lines[idx] = line[:r.Position.ColStart] + r.Replacement + line[r.Position.ColEnd:]
		applied = append(applied, r)
	}

	// Report applied replacements in discovery order, not write order.
	sort.SliceStable(applied, func(a, b int) bool { return applied[a].Priority < applied[b].Priority })
	sort.SliceStable(skipped, func(a, b int) bool { return skipped[a].Priority < skipped[b].Priority })

	return RewriteResult{
		Text:    strings.Join(lines, "\n"),
		Applied: applied,
		Skipped: skipped,
	}
}
