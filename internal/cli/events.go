package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// readEvents is one read's stream of raw event means.
type readEvents struct {
	ID    string
	Means []float32
}

// parseEventStream reads a "read_id<TAB>event_mean" TSV. Consecutive
// lines sharing an id form one read; an id of "-" groups lines into an
// anonymous read that gets a fresh UUID.
func parseEventStream(r io.Reader) ([]readEvents, error) {
	var (
		reads []readEvents
		cur   *readEvents
		last  string
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1<<16), 1<<24)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		id, meanStr, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("events line %d: expected read_id<TAB>mean", line)
		}
		mean, err := strconv.ParseFloat(strings.TrimSpace(meanStr), 32)
		if err != nil {
			return nil, fmt.Errorf("events line %d: bad mean: %w", line, err)
		}

		if cur == nil || id != last {
			name := id
			if name == "-" {
				name = uuid.NewString()
			}
			reads = append(reads, readEvents{ID: name})
			cur = &reads[len(reads)-1]
			last = id
		}
		cur.Means = append(cur.Means, float32(mean))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return reads, nil
}
