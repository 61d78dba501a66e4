package mcpserver

// ReferenceSyntax documents how notes refer to one another and how
// references are resolved.
const ReferenceSyntax = `# Zettel Reference Syntax

A note directory is flat: every ` + "`" + `.md` + "`" + ` or ` + "`" + `.txt` + "`" + ` file directly inside it is a note,
identified by its filename.

## Writing references

Two notations are recognised anywhere in a note's text:

` + "```" + `markdown
See [[202002251025]] for the original idea.
Background is in [the EDA note](03242020003215-eda-explained.md).
` + "```" + `

1. **Bracket form** ` + "`" + `[[token]]` + "`" + `: the token is everything between the double
   brackets and may not contain ` + "`" + `]` + "`" + `.
2. **Markdown link form** ` + "`" + `[label](token)` + "`" + `: the token is the link target.

Bracket references are processed before Markdown links.

## Resolution

- A token resolves to the note whose filename **starts with** the token.
- No match: the reference is reported as unresolved and dropped.
- More than one match: the reference is reported as non-unique, with the
  candidate filenames, and dropped.
- A note referring to itself, or the same note twice, adds no extra edge.
- Files that are not valid UTF-8 still appear as notes but contribute no
  references.

Use the full timestamp prefix (e.g. ` + "`" + `202002251025` + "`" + `) so a reference stays unique
as the directory grows.
`
