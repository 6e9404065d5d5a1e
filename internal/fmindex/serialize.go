package fmindex

import (
	"encoding/gob"
	"fmt"
	"os"
)

// indexFile is the on-disk form of an Index. gob needs exported fields;
// the in-memory struct keeps them private.
type indexFile struct {
	Size  uint64
	Bwt   []uint8
	Sent  uint64
	Count [alphSize]uint64
	Occ   [alphSize][]uint64
	Sa    []uint64
}

// Save writes the index to path.
func (x *Index) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save index: %w", err)
	}
	defer f.Close()

	file := indexFile{
		Size:  x.size,
		Bwt:   x.bwt,
		Sent:  x.sent,
		Count: x.count,
		Occ:   x.occ,
		Sa:    x.sa,
	}
	if err := gob.NewEncoder(f).Encode(&file); err != nil {
		return fmt.Errorf("save index: %w", err)
	}
	return nil
}

// Load reads an index written by Save.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	defer f.Close()

	var file indexFile
	if err := gob.NewDecoder(f).Decode(&file); err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	return &Index{
		size:  file.Size,
		bwt:   file.Bwt,
		sent:  file.Sent,
		count: file.Count,
		occ:   file.Occ,
		sa:    file.Sa,
	}, nil
}
