package corpus

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/nvandessel/textsim/internal/constants"
)

// LoadLines reads one candidate per line. A trailing carriage return is
// removed. Empty lines are skipped unless keepEmpty is set.
func LoadLines(r io.Reader, keepEmpty bool) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), constants.MaxLineBytes)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" && !keepEmpty {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading candidate lines: %w", err)
	}
	return out, nil
}
