package ui

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/reflow/wordwrap"
)

// highlightCode applies syntax highlighting to code using chroma
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}

	return buf.String()
}

// RenderMessageBody renders a message's text for the chat viewport:
// fenced code blocks get syntax highlighting, everything else is
// word-wrapped to the given width.
func RenderMessageBody(text string, width int) string {
	if width <= 0 {
		width = 1
	}

	lines := strings.Split(text, "\n")
	var out []string

	inCode := false
	codeLang := ""
	var codeLines []string

	flushCode := func() {
		code := strings.Join(codeLines, "\n")
		highlighted := highlightCode(code, codeLang)
		out = append(out, strings.TrimRight(highlighted, "\n"))
		codeLines = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inCode {
				flushCode()
				inCode = false
			} else {
				inCode = true
				codeLang = strings.TrimPrefix(trimmed, "```")
			}
			continue
		}

		if inCode {
			codeLines = append(codeLines, line)
			continue
		}

		out = append(out, wordwrap.String(ChatMessageStyle.Render(line), width))
	}

	// Unterminated fence: render what we have
	if inCode {
		flushCode()
	}

	return strings.Join(out, "\n")
}
