package fmindex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFasta(t *testing.T) {
	name, seq, err := parseFasta(strings.NewReader(">chr1 some description\nACGT\nacgt\n\nTT\n"))
	require.NoError(t, err)
	assert.Equal(t, "chr1", name)
	assert.Equal(t, []byte("ACGTacgtTT"), seq)
}

func TestParseFasta_Errors(t *testing.T) {
	_, _, err := parseFasta(strings.NewReader(""))
	assert.Error(t, err, "empty input")

	_, _, err = parseFasta(strings.NewReader("ACGT\n"))
	assert.Error(t, err, "sequence before header")

	_, _, err = parseFasta(strings.NewReader(">a\nACGT\n>b\nTTTT\n"))
	assert.Error(t, err, "multiple records")

	_, _, err = parseFasta(strings.NewReader(">empty\n"))
	assert.Error(t, err, "header with no sequence")
}
