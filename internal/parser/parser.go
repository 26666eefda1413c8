// Package parser extracts frontmatter, titles, aliases, and typed link
// records from Markdown content.
package parser

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/ehwaz/internal/models"
)

var (
	wikilinkRe = regexp.MustCompile(`\[\[([^\[\]|]+?)(?:\|([^\[\]]+?))?\]\]`)
	mdLinkRe   = regexp.MustCompile(`\[([^\[\]]*)\]\(([^)]*)\)`)
	refDefRe   = regexp.MustCompile(`^\s*\[([^\[\]]+)\]:\s*(\S*)`)
	tagRe      = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)
)

// Result holds the output of parsing a Markdown file.
type Result struct {
	Frontmatter map[string]interface{}
	Body        string
	Title       string
	ID          string
	Aliases     []string
	Tags        []string
	Links       []models.Link
}

// Parse extracts frontmatter, body, identity fields, and link records from
// raw Markdown bytes. path is the vault-relative file path; it seeds link
// sources and the filename-stem id fallback.
func Parse(path string, data []byte) (*Result, error) {
	fm, body, bodyOffset, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}

	title := deriveTitle(fm, body)

	return &Result{
		Frontmatter: fm,
		Body:        body,
		Title:       title,
		ID:          deriveID(fm, path),
		Aliases:     extractAliases(fm, title),
		Tags:        extractTags(body, fm),
		Links:       extractLinks(path, body, bodyOffset),
	}, nil
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. Frontmatter opens only when the delimiter is the
// very first line of the file, the same rule the rewriter's zone extractor
// applies, so a document starting with a blank line keeps its metadata block
// as plain body. The returned offset is the number of file lines stripped
// before the body; callers add it to body-relative line numbers.
func splitFrontmatter(data []byte) (map[string]interface{}, string, int, error) {
	const delim = "---"

	firstLine := string(data)
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		firstLine = string(data[:i])
	}
	if strings.TrimSpace(firstLine) != delim {
		return nil, string(data), 0, nil
	}

	rest := data[len(firstLine):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// No closing delimiter, treat everything as body.
		return nil, string(data), 0, nil
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm map[string]interface{}
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		// Invalid YAML: fall back to treating everything as body.
		return nil, string(data), 0, nil
	}

	offset := bytes.Count(data[:len(data)-len(body)], []byte("\n"))
	return fm, body, offset, nil
}

// deriveID returns the frontmatter "id" if present, otherwise the filename
// stem (path without directory or extension).
func deriveID(fm map[string]interface{}, path string) string {
	if fm != nil {
		if v, ok := fm["id"]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// deriveTitle returns the frontmatter "title" if present, otherwise the first
// H1 heading, otherwise empty string.
func deriveTitle(fm map[string]interface{}, body string) string {
	if fm != nil {
		if t, ok := fm["title"]; ok {
			if s, ok := t.(string); ok && s != "" {
				return s
			}
		}
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

// extractAliases collects the frontmatter "aliases" list, deduplicated in
// order, dropping any alias equal to the title case-insensitively.
func extractAliases(fm map[string]interface{}, title string) []string {
	if fm == nil {
		return nil
	}
	raw, ok := fm["aliases"]
	if !ok {
		return nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	lowTitle := strings.ToLower(strings.TrimSpace(title))
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		low := strings.ToLower(s)
		if low == lowTitle {
			continue
		}
		if _, dup := seen[low]; dup {
			continue
		}
		seen[low] = struct{}{}
		out = append(out, s)
	}
	return out
}

// extractTags collects #tags from body and from frontmatter "tags" field.
func extractTags(body string, fm map[string]interface{}) []string {
	seen := make(map[string]struct{})
	var out []string

	if fm != nil {
		if raw, ok := fm["tags"]; ok {
			if items, ok := raw.([]interface{}); ok {
				for _, item := range items {
					if s, ok := item.(string); ok {
						s = strings.TrimSpace(s)
						if s != "" {
							if _, dup := seen[s]; !dup {
								seen[s] = struct{}{}
								out = append(out, s)
							}
						}
					}
				}
			}
		}
	}

	for _, m := range tagRe.FindAllStringSubmatch(body, -1) {
		t := m[1]
		if _, dup := seen[t]; !dup {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}

	return out
}

// extractLinks walks the body line by line and returns every wikilink,
// regular markdown link, and link-reference-definition with its 1-based
// line number in the original file; lineOffset is the frontmatter prefix
// the body no longer carries. Fenced code blocks and inline code spans are
// skipped so a link example inside code is not reported as a real link.
func extractLinks(path, body string, lineOffset int) []models.Link {
	var out []models.Link

	inFence := false
	for i, line := range strings.Split(body, "\n") {
		lineNum := lineOffset + i + 1
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		clean := stripInlineCode(line)

		// Link-reference-definitions claim the whole line; the label part
		// would otherwise also match the regular-link pattern.
		if m := refDefRe.FindStringSubmatch(clean); m != nil {
			out = append(out, models.Link{
				Source: path,
				Target: m[2],
				Type:   models.LinkTypeRefDef,
				Text:   m[1],
				Line:   lineNum,
			})
			continue
		}

		for _, m := range wikilinkRe.FindAllStringSubmatch(clean, -1) {
			target := strings.TrimSpace(m[1])
			if target == "" {
				continue
			}
			out = append(out, models.Link{
				Source: path,
				Target: target,
				Type:   models.LinkTypeWiki,
				Text:   strings.TrimSpace(m[2]),
				Line:   lineNum,
			})
		}

		// Regular links on the line with wikilink spans blanked out, so
		// [[a|b]] is not double-counted as a regular link.
		noWiki := wikilinkRe.ReplaceAllString(clean, "")
		for _, m := range mdLinkRe.FindAllStringSubmatch(noWiki, -1) {
			out = append(out, models.Link{
				Source: path,
				Target: strings.TrimSpace(m[2]),
				Type:   models.LinkTypeRegular,
				Text:   strings.TrimSpace(m[1]),
				Line:   lineNum,
			})
		}
	}
	return out
}

// stripInlineCode blanks out single-backtick code spans, preserving line
// length so column positions computed later still line up.
func stripInlineCode(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	i := 0
	for i < len(line) {
		if line[i] == '`' {
			end := strings.IndexByte(line[i+1:], '`')
			if end < 0 {
				b.WriteString(strings.Repeat(" ", len(line)-i))
				break
			}
			span := end + 2
			b.WriteString(strings.Repeat(" ", span))
			i += span
			continue
		}
		b.WriteByte(line[i])
		i++
	}
	return b.String()
}

// WikiTargets returns the deduplicated targets of every wikilink in links,
// in first-seen order.
func WikiTargets(links []models.Link) []string {
	seen := make(map[string]struct{}, len(links))
	var out []string
	for _, l := range links {
		if l.Type != models.LinkTypeWiki {
			continue
		}
		if _, dup := seen[l.Target]; dup {
			continue
		}
		seen[l.Target] = struct{}{}
		out = append(out, l.Target)
	}
	return out
}
