// Package rendering generates the LaTeX and Markdown documents of a resume.
package rendering

import "strings"

var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
)

// EscapeLaTeX escapes special LaTeX characters in text
// Special characters: \ { } $ & % # ^ _ ~
func EscapeLaTeX(text string) string {
	return latexReplacer.Replace(text)
}

// escapeURL makes a URL safe to place inside a \href argument. Braces,
// backslashes and whitespace cannot appear in a brace-delimited argument.
func escapeURL(u string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '{', '}', '\\', ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, u)
}

var markdownReplacer = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`#`, `\#`,
	`|`, `\|`,
)

// EscapeMarkdown escapes characters that would otherwise start Markdown
// emphasis, links, headings, inline HTML or table cells.
func EscapeMarkdown(text string) string {
	return markdownReplacer.Replace(text)
}
