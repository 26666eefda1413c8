package mcpserver

// LinkFormatContract describes the canonical wiki-link format that the
// auto-linker produces and that LLM consumers should follow when writing
// links by hand.
const LinkFormatContract = `# Ehwaz Link Format Contract

All cross-references between documents in an Ehwaz vault use wiki-link
syntax keyed by document id.

## Syntax

` + "```" + `markdown
[[100]]              # bare link to the document whose id is 100
[[100|Kubernetes]]   # same link displayed as "Kubernetes"
` + "```" + `

## Rules

1. **The target is a document id**, not a file path. Ids come from the
   ` + "`" + `id` + "`" + ` frontmatter field, or the filename stem when that field is absent.
2. **The alias is the display text.** The auto-linker always uses the
   literal text it matched in prose as the alias, so rewritten sentences
   read unchanged. Omit the alias only when the id itself should show.
3. **Ids are unique within a vault.** When two files claim the same id,
   the first one (in listing order) wins and the duplicate is reported.
4. **Never place links inside protected regions**: YAML frontmatter, code
   blocks and inline code, existing links, URLs, HTML tags, H1 headers,
   reference definitions, or template variables. The auto-linker skips
   these regions; hand-written links must too.
5. **Reference definitions** of the form ` + "`" + `[id|alias]: path "title"` + "`" + ` are
   recognized but never produced.
6. **Frontmatter aliases** feed matching: every value in the ` + "`" + `aliases` + "`" + `
   list (and spelling variations of titles and aliases) becomes a link
   target for the auto-linker. Adding an alias to a document makes its
   mentions linkable vault-wide.

## Example

` + "```" + `markdown
---
id: "100"
title: Kubernetes
aliases:
  - k8s
tags:
  - infra
---

# Kubernetes

Deployment notes live in [[200|the runbook]].
` + "```" + `

A sentence like "we run k8s in production" elsewhere in the vault is
rewritten by the auto-linker to "we run [[100|k8s]] in production".
`
