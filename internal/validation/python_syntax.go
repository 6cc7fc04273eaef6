package validation

import (
	"fmt"
	"strings"
)

// SyntaxIssue is one problem found in a code cell, with a 1-based line number
type SyntaxIssue struct {
	Line    int
	Message string
}

// CheckPythonSyntax runs a lightweight structural check over Python source:
// bracket balance, unterminated string literals, and block headers with no
// indented body. It does not parse Python; it catches the classes of defect
// code generators actually produce (mismatched delimiters, broken
// templating, lost indentation) without a Python runtime.
func CheckPythonSyntax(source string) []SyntaxIssue {
	var issues []SyntaxIssue

	type openBracket struct {
		char rune
		line int
	}
	var stack []openBracket

	pairs := map[rune]rune{')': '(', ']': '[', '}': '{'}

	inString := false
	var quote rune
	tripleQuote := false
	stringLine := 0

	lines := strings.Split(source, "\n")
	for lineIdx, line := range lines {
		lineNo := lineIdx + 1
		runes := []rune(line)

		for i := 0; i < len(runes); i++ {
			ch := runes[i]

			if inString {
				if ch == '\\' && !tripleQuote {
					i++ // skip escaped character
					continue
				}
				if ch == quote {
					if tripleQuote {
						if i+2 < len(runes) && runes[i+1] == quote && runes[i+2] == quote {
							inString = false
							tripleQuote = false
							i += 2
						}
					} else {
						inString = false
					}
				}
				continue
			}

			switch ch {
			case '#':
				// comment: rest of line is inert
				i = len(runes)

			case '\'', '"':
				quote = ch
				inString = true
				stringLine = lineNo
				if i+2 < len(runes) && runes[i+1] == ch && runes[i+2] == ch {
					tripleQuote = true
					i += 2
				}

			case '(', '[', '{':
				stack = append(stack, openBracket{char: ch, line: lineNo})

			case ')', ']', '}':
				if len(stack) == 0 {
					issues = append(issues, SyntaxIssue{
						Line:    lineNo,
						Message: fmt.Sprintf("unmatched closing '%c'", ch),
					})
					continue
				}
				top := stack[len(stack)-1]
				if top.char != pairs[ch] {
					issues = append(issues, SyntaxIssue{
						Line:    lineNo,
						Message: fmt.Sprintf("mismatched '%c': expected closing for '%c' opened on line %d", ch, top.char, top.line),
					})
				}
				stack = stack[:len(stack)-1]
			}
		}

		// single-quoted strings do not continue across lines
		if inString && !tripleQuote {
			issues = append(issues, SyntaxIssue{
				Line:    stringLine,
				Message: "unterminated string literal",
			})
			inString = false
		}
	}

	if inString && tripleQuote {
		issues = append(issues, SyntaxIssue{
			Line:    stringLine,
			Message: "unterminated triple-quoted string",
		})
	}

	for _, open := range stack {
		issues = append(issues, SyntaxIssue{
			Line:    open.line,
			Message: fmt.Sprintf("unclosed '%c'", open.char),
		})
	}

	issues = append(issues, checkBlockHeaders(lines)...)
	return issues
}

// checkBlockHeaders verifies that a line ending a block header with ':' is
// followed by a more-indented line. Only top-level structure is inspected;
// lines inside brackets or strings were already handled above, so a stray
// ':' inside them can produce a false match in pathological formatting.
// That is the accepted trade-off of a textual check.
func checkBlockHeaders(lines []string) []SyntaxIssue {
	var issues []SyntaxIssue
	depth := 0

	for idx, line := range lines {
		stripped := stripCommentAndStrings(line)
		opens := strings.Count(stripped, "(") + strings.Count(stripped, "[") + strings.Count(stripped, "{")
		closes := strings.Count(stripped, ")") + strings.Count(stripped, "]") + strings.Count(stripped, "}")

		endsBlock := depth == 0 && strings.HasSuffix(strings.TrimSpace(stripped), ":") && isBlockKeyword(stripped)
		depth += opens - closes
		if depth < 0 {
			depth = 0
		}
		if !endsBlock {
			continue
		}

		headerIndent := indentOf(line)
		found := false
		for next := idx + 1; next < len(lines); next++ {
			if strings.TrimSpace(lines[next]) == "" {
				continue
			}
			found = indentOf(lines[next]) > headerIndent
			break
		}
		if !found {
			issues = append(issues, SyntaxIssue{
				Line:    idx + 1,
				Message: "expected an indented block after this line",
			})
		}
	}
	return issues
}

var blockKeywords = []string{"if ", "elif ", "else", "for ", "while ", "def ", "class ", "try", "except", "finally", "with "}

func isBlockKeyword(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, kw := range blockKeywords {
		if strings.HasPrefix(trimmed, kw) || trimmed == strings.TrimSpace(kw)+":" {
			return true
		}
	}
	return false
}

func indentOf(line string) int {
	indent := 0
	for _, ch := range line {
		switch ch {
		case ' ':
			indent++
		case '\t':
			indent += 8
		default:
			return indent
		}
	}
	return indent
}

// stripCommentAndStrings removes string literal contents and trailing
// comments from a single line, for counting brackets only
func stripCommentAndStrings(line string) string {
	var b strings.Builder
	var quote rune
	inString := false
	runes := []rune(line)

	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if inString {
			if ch == '\\' {
				i++
				continue
			}
			if ch == quote {
				inString = false
			}
			continue
		}
		switch ch {
		case '#':
			return b.String()
		case '\'', '"':
			inString = true
			quote = ch
		default:
			b.WriteRune(ch)
		}
	}
	return b.String()
}
