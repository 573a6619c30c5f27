package export

import "strings"

// quoteCell wraps a cell value in quotes, doubling any embedded
// quote characters.
func quoteCell(cell string) string {
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}

// ParseLine splits one CSV line into cells. Cells may be quoted;
// inside a quoted cell a doubled quote decodes to a literal quote
// and commas lose their separator role. Cell values are trimmed.
func ParseLine(line string) []string {
	var result []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			result = append(result, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	result = append(result, strings.TrimSpace(current.String()))

	return result
}
