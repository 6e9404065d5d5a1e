package store

import (
	"fmt"

	"github.com/nanoseed/nanoseed/internal/align"
)

// WriteSeed appends one seed record for a read.
func (s *Store) WriteSeed(readID string, seed align.Seed) error {
	_, err := s.db.Exec(`
		INSERT INTO seeds (read_id, evt_end, evt_win, ref_start, ref_end, win_prob)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		readID,
		seed.ReadEventEnd,
		seed.ReadWindow,
		int64(seed.RefStart),
		int64(seed.RefEnd),
		seed.WinProb,
	)
	if err != nil {
		return fmt.Errorf("write seed: %w", err)
	}
	return nil
}

// WriteRead records a finished read's terminal state and, for mapped
// reads, its location. Re-running a read id overwrites the old row.
func (s *Store) WriteRead(readID string, state align.State, events int, result *align.MapResult) error {
	var refStart, refEnd, totalLen any
	if result != nil {
		refStart = int64(result.RefStart)
		refEnd = int64(result.RefEnd)
		totalLen = result.TotalLen
	}

	_, err := s.db.Exec(`
		INSERT INTO reads (id, state, events, ref_start, ref_end, total_len)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			events = excluded.events,
			ref_start = excluded.ref_start,
			ref_end = excluded.ref_end,
			total_len = excluded.total_len
	`,
		readID,
		state.String(),
		events,
		refStart,
		refEnd,
		totalLen,
	)
	if err != nil {
		return fmt.Errorf("write read: %w", err)
	}
	return nil
}

// CountSeeds returns the number of seed rows for a read.
func (s *Store) CountSeeds(readID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM seeds WHERE read_id = ?`, readID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count seeds: %w", err)
	}
	return n, nil
}
