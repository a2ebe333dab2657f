package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTags splits an identifier list such as "1 2", "1,2" or "1, 2" into tags.
func ParseTags(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTagList, s)
		}
		out = append(out, n)
	}
	return out, nil
}

// JoinTags renders tags with the given separator.
func JoinTags(tags []int, sep string) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = strconv.Itoa(t)
	}
	return strings.Join(parts, sep)
}

// formatDim renders a dimension in its shortest form (0.3, not 0.300000).
func formatDim(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
