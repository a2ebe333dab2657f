package llm

import (
	"fmt"
	"strings"
)

// DescribeParts summarizes request parts for logs. Inline media is replaced
// by its MIME type and size; text is reduced to its length.
func DescribeParts(parts []Part) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p.Media != nil {
			out = append(out, fmt.Sprintf("[REDACTED %s %d bytes]", p.Media.MIMEType, len(p.Media.Data)))
			continue
		}
		out = append(out, fmt.Sprintf("text(%d)", len(p.Text)))
	}
	return "[" + strings.Join(out, " ") + "]"
}
