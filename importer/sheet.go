package importer

import "strings"

// Sheet is a header row plus data rows, independent of the file format it was read from.
type Sheet struct {
	Headers []string
	Rows    [][]string
}

// HeaderIndex maps normalized header names to their column position.
type HeaderIndex map[string]int

// ResolveHeaders builds the header lookup for one import call. When two raw
// headers normalize to the same name, the later column wins.
func ResolveHeaders(headers []string) HeaderIndex {
	index := make(HeaderIndex, len(headers))
	for i, header := range headers {
		index[normalizeHeader(header)] = i
	}
	return index
}

// Field returns the cell of the first alias present in the index, trimmed and
// with one layer of surrounding double quotes removed. It returns "" when no
// alias matches or the row is too short.
func (h HeaderIndex) Field(row []string, aliases ...string) string {
	for _, alias := range aliases {
		col, ok := h[normalizeHeader(alias)]
		if !ok {
			continue
		}
		if col >= len(row) {
			return ""
		}
		return stripQuotes(strings.TrimSpace(row[col]))
	}
	return ""
}

// Has reports whether any alias resolves to a column.
func (h HeaderIndex) Has(aliases ...string) bool {
	for _, alias := range aliases {
		if _, ok := h[normalizeHeader(alias)]; ok {
			return true
		}
	}
	return false
}

func normalizeHeader(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	return strings.ReplaceAll(trimmed, " ", "_")
}

func stripQuotes(value string) string {
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		return value[1 : len(value)-1]
	}
	return value
}
