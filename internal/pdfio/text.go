// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfio

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

// rectSlack widens rectangle queries by a couple of points. Shown text is
// anchored at the baseline, which can sit just outside a tight highlight
// quad.
const rectSlack = 2.0

// textRun is one shown string with the text-space position it was drawn at.
type textRun struct {
	x, y float64
	text string
}

// TextInRect returns the page text whose anchor point falls within r,
// in content-stream order, joined with single spaces.
func (p *page) TextInRect(r Rect) (string, error) {
	if !p.runsParsed {
		reader, err := pdfcpu.ExtractPageContent(p.doc.ctx, p.number)
		if err != nil {
			return "", fmt.Errorf("page %d content: %w", p.number, err)
		}
		data, err := io.ReadAll(reader)
		if err != nil {
			return "", fmt.Errorf("page %d content: %w", p.number, err)
		}
		p.runs = parseTextRuns(data)
		p.runsParsed = true
	}

	x0, x1 := ordered(r.X0, r.X1)
	y0, y1 := ordered(r.Y0, r.Y1)
	x0, y0 = x0-rectSlack, y0-rectSlack
	x1, y1 = x1+rectSlack, y1+rectSlack

	var parts []string
	for _, run := range p.runs {
		if run.x >= x0 && run.x <= x1 && run.y >= y0 && run.y <= y1 {
			parts = append(parts, run.text)
		}
	}
	return strings.Join(parts, " "), nil
}

func ordered(a, b float64) (float64, float64) {
	if a > b {
		return b, a
	}
	return a, b
}

// parseTextRuns scans a content stream for text-showing operators and
// records each literal string together with its position. Positioning
// follows Tm/Td/TD/TL/T* and the quote operators; glyph advance is
// approximated from the font size, which is enough to bucket runs into
// highlight rectangles.
func parseTextRuns(data []byte) []textRun {
	var (
		runs     []textRun
		ops      []float64
		strs     []string
		lineX    float64
		lineY    float64
		curX     float64
		curY     float64
		leading  float64
		fontSize = 12.0
	)

	emit := func() {
		text := cleanText(strings.Join(strs, ""))
		if text != "" {
			runs = append(runs, textRun{x: curX, y: curY, text: text})
			// Rough advance so consecutive shows on one line spread out.
			curX += float64(len(text)) * fontSize * 0.5
		}
	}
	newline := func() {
		lineY -= leading
		curX, curY = lineX, lineY
	}
	reset := func() {
		ops = ops[:0]
		strs = strs[:0]
	}

	i := 0
	for i < len(data) {
		c := data[i]
		switch {
		case isPDFWhitespace(c):
			i++

		case c == '%':
			for i < len(data) && data[i] != '\n' && data[i] != '\r' {
				i++
			}

		case c == '(':
			s, next := parseLiteralString(data, i)
			strs = append(strs, s)
			i = next

		case c == '<':
			if i+1 < len(data) && data[i+1] == '<' {
				i += 2
				continue
			}
			// Hex strings carry font-encoded bytes we cannot map back
			// to text without the font's cmap; skip them.
			for i < len(data) && data[i] != '>' {
				i++
			}
			i++

		case c == '[' || c == ']' || c == '{' || c == '}' || c == ')' || c == '>':
			i++

		case c == '/':
			i++
			for i < len(data) && !isPDFDelimiter(data[i]) && !isPDFWhitespace(data[i]) {
				i++
			}

		case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
			v, next := parseNumber(data, i)
			ops = append(ops, v)
			i = next

		default:
			op, next := parseOperator(data, i)
			i = next
			switch op {
			case "BT":
				lineX, lineY, curX, curY, leading = 0, 0, 0, 0, 0
			case "Tm":
				if n := len(ops); n >= 6 {
					lineX, lineY = ops[n-2], ops[n-1]
					curX, curY = lineX, lineY
				}
			case "Td":
				if n := len(ops); n >= 2 {
					lineX += ops[n-2]
					lineY += ops[n-1]
					curX, curY = lineX, lineY
				}
			case "TD":
				if n := len(ops); n >= 2 {
					leading = -ops[n-1]
					lineX += ops[n-2]
					lineY += ops[n-1]
					curX, curY = lineX, lineY
				}
			case "TL":
				if n := len(ops); n >= 1 {
					leading = ops[n-1]
				}
			case "Tf":
				if n := len(ops); n >= 1 && ops[n-1] > 0 {
					fontSize = ops[n-1]
				}
			case "T*":
				newline()
			case "Tj", "TJ":
				emit()
			case "'":
				newline()
				emit()
			case "\"":
				newline()
				emit()
			}
			reset()
		}
	}

	return runs
}

// parseLiteralString reads a parenthesized PDF string starting at data[i],
// handling nested parentheses and escape sequences. It returns the decoded
// string and the index after the closing parenthesis.
func parseLiteralString(data []byte, i int) (string, int) {
	var sb strings.Builder
	depth := 1
	i++ // opening paren

	for i < len(data) && depth > 0 {
		c := data[i]
		switch c {
		case '\\':
			i++
			if i >= len(data) {
				break
			}
			switch data[i] {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'b', 'f':
				// Ignored control glyphs.
			case '(', ')', '\\':
				sb.WriteByte(data[i])
			case '\n':
				// Line continuation.
			case '\r':
				if i+1 < len(data) && data[i+1] == '\n' {
					i++
				}
			default:
				if data[i] >= '0' && data[i] <= '7' {
					val := int(data[i] - '0')
					for n := 0; n < 2 && i+1 < len(data) && data[i+1] >= '0' && data[i+1] <= '7'; n++ {
						i++
						val = val*8 + int(data[i]-'0')
					}
					sb.WriteByte(byte(val))
				} else {
					sb.WriteByte(data[i])
				}
			}
			i++
		case '(':
			depth++
			sb.WriteByte(c)
			i++
		case ')':
			depth--
			if depth > 0 {
				sb.WriteByte(c)
			}
			i++
		default:
			sb.WriteByte(c)
			i++
		}
	}

	return sb.String(), i
}

func parseNumber(data []byte, i int) (float64, int) {
	start := i
	if data[i] == '+' || data[i] == '-' {
		i++
	}
	for i < len(data) && (data[i] == '.' || (data[i] >= '0' && data[i] <= '9')) {
		i++
	}
	var v float64
	fmt.Sscanf(string(data[start:i]), "%g", &v)
	return v, i
}

func parseOperator(data []byte, i int) (string, int) {
	start := i
	for i < len(data) && !isPDFDelimiter(data[i]) && !isPDFWhitespace(data[i]) {
		i++
	}
	if i == start {
		// Unrecognized delimiter byte; consume it so the scan advances.
		return string(data[start : start+1]), start + 1
	}
	return string(data[start:i]), i
}

func isPDFWhitespace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == 0
}

func isPDFDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// cleanText collapses whitespace and drops non-printable runes.
func cleanText(text string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
		} else if unicode.IsPrint(r) {
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(sb.String())
}
