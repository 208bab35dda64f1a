package browser

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// DefaultTextLimit caps how much of a text file the viewer reads.
const DefaultTextLimit = 256 << 10

// readLines splits r into lines, reading at most maxBytes. Tabs are expanded
// and carriage returns dropped so rows render cleanly.
func readLines(r io.Reader, maxBytes int64) ([]string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultTextLimit
	}
	sc := bufio.NewScanner(io.LimitReader(r, maxBytes))
	sc.Buffer(make([]byte, 0, 4096), int(maxBytes))

	var lines []string
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		lines = append(lines, strings.ReplaceAll(line, "\t", "    "))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading text: %w", err)
	}
	return lines, nil
}
