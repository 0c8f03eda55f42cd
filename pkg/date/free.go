package date

import (
	"sort"
	"time"
)

// MinimumFreeBlockGap is the smallest gap between busy times that still counts as a free block
const MinimumFreeBlockGap = time.Minute * 15

// FreeBlock is an unoccupied interval inside a working window.
// It is derived data, recomputed on every request and never persisted.
type FreeBlock struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"durationMinutes"`
}

// NewFreeBlock builds a FreeBlock and derives its duration
func NewFreeBlock(start time.Time, end time.Time) FreeBlock {
	return FreeBlock{
		Start:           start,
		End:             end,
		DurationMinutes: int(end.Sub(start) / time.Minute),
	}
}

// Timespan returns the interval the FreeBlock covers
func (b *FreeBlock) Timespan() Timespan {
	return Timespan{Start: b.Start, End: b.End}
}

// ComputeFreeBlocks computes the free intervals of a working window that are not
// occupied by any of the busy timespans. Busy entries may overlap or be nested;
// the cursor only ever moves forward, so overlaps merge implicitly. Entries that
// start before the window are clipped by the cursor initialization, entries fully
// outside the window and zero-duration entries are skipped. The result is sorted
// ascending, pairwise disjoint and only contains blocks of at least minGap length.
func ComputeFreeBlocks(busy []Timespan, window Timespan, minGap time.Duration) []FreeBlock {
	if minGap <= 0 {
		minGap = MinimumFreeBlockGap
	}

	var relevant []Timespan
	for _, timespan := range busy {
		if !timespan.IsStartBeforeEnd() {
			continue
		}
		if !timespan.End.After(window.Start) || !timespan.Start.Before(window.End) {
			continue
		}
		relevant = append(relevant, timespan)
	}

	sort.Slice(relevant, func(i, j int) bool {
		return relevant[i].Start.Before(relevant[j].Start)
	})

	var blocks []FreeBlock
	cursor := window.Start

	for _, timespan := range relevant {
		if timespan.Start.Sub(cursor) >= minGap {
			blocks = append(blocks, NewFreeBlock(cursor, timespan.Start))
		}

		if timespan.End.After(cursor) {
			cursor = timespan.End
		}
	}

	if window.End.Sub(cursor) >= minGap {
		blocks = append(blocks, NewFreeBlock(cursor, window.End))
	}

	return blocks
}
