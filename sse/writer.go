package sse

import (
	"fmt"
	"io"
	"strings"
)

// WriteEvent writes data as one unnamed event, preceded by an id field when
// id is not empty. Multi-line data is split across data fields so that
// readers reassemble it unchanged.
func WriteEvent(w io.Writer, id, data string) error {
	var b strings.Builder
	if id != "" {
		b.WriteString("id: ")
		b.WriteString(id)
		b.WriteByte('\n')
	}
	for _, line := range strings.Split(data, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("sse: %w", err)
	}
	return nil
}
