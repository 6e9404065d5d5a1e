package fmindex

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadFasta reads the first record of a FASTA file and returns its name
// (the header up to the first whitespace) and sequence. Multi-record
// files are rejected: the aligner maps against a single reference text.
func ReadFasta(path string) (string, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("read fasta: %w", err)
	}
	defer f.Close()
	return parseFasta(f)
}

func parseFasta(r io.Reader) (string, []byte, error) {
	var (
		name string
		seq  bytes.Buffer
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1<<16), 1<<24)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, ">"):
			if name != "" {
				return "", nil, fmt.Errorf("read fasta: multiple records, expected one reference")
			}
			name = strings.Fields(line[1:])[0]
		case name == "":
			return "", nil, fmt.Errorf("read fasta: sequence before header")
		default:
			seq.WriteString(line)
		}
	}
	if err := sc.Err(); err != nil {
		return "", nil, fmt.Errorf("read fasta: %w", err)
	}
	if name == "" || seq.Len() == 0 {
		return "", nil, fmt.Errorf("read fasta: no record found")
	}
	return name, seq.Bytes(), nil
}
