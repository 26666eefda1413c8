package batch

import (
	"strconv"
	"strings"
)

// addAliases inserts aliases into the frontmatter alias list of content,
// leaving every other byte untouched. The second return value is false
// when the document has no frontmatter block to edit.
func addAliases(content []byte, aliases []string) ([]byte, bool) {
	if len(aliases) == 0 {
		return content, false
	}

	lines := strings.Split(string(content), "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t") != "---" {
		return content, false
	}

	closing := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == "---" {
			closing = i
			break
		}
	}
	if closing < 0 {
		return content, false
	}

	items := make([]string, 0, len(aliases))
	for _, a := range aliases {
		items = append(items, "  - "+quoteYAML(a))
	}

	for i := 1; i < closing; i++ {
		trimmed := strings.TrimRight(lines[i], " \t")
		if trimmed == "aliases:" {
			// Block-style list: new items go right after the key.
			out := append(lines[:i+1:i+1], append(items, lines[i+1:]...)...)
			return []byte(strings.Join(out, "\n")), true
		}
		if rest, ok := strings.CutPrefix(trimmed, "aliases:"); ok {
			// Flow-style list on one line.
			flow := strings.TrimSpace(rest)
			if strings.HasPrefix(flow, "[") && strings.HasSuffix(flow, "]") {
				inner := strings.TrimSpace(flow[1 : len(flow)-1])
				quoted := make([]string, 0, len(aliases))
				for _, a := range aliases {
					quoted = append(quoted, quoteYAML(a))
				}
				if inner == "" {
					inner = strings.Join(quoted, ", ")
				} else {
					inner += ", " + strings.Join(quoted, ", ")
				}
				lines[i] = "aliases: [" + inner + "]"
				return []byte(strings.Join(lines, "\n")), true
			}
			// Scalar alias value, leave it alone.
			return content, false
		}
	}

	// No aliases key: add one just before the closing delimiter.
	block := append([]string{"aliases:"}, items...)
	out := append(lines[:closing:closing], append(block, lines[closing:]...)...)
	return []byte(strings.Join(out, "\n")), true
}

// quoteYAML renders a frontmatter-safe scalar for an alias value.
func quoteYAML(s string) string {
	return strconv.Quote(s)
}
