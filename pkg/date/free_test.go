package date

import (
	"fmt"
	"reflect"
	"testing"
	"time"
)

func timeDate(year int, month time.Month, day int, hour int, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func TestComputeFreeBlocks(t *testing.T) {
	t.Parallel()

	window := Timespan{Start: timeDate(2023, 1, 4, 9, 0), End: timeDate(2023, 1, 4, 19, 0)}

	var freeBlockTests = []struct {
		busy   []Timespan
		window Timespan
		out    []FreeBlock
	}{
		{
			// Case two morning meetings leave three blocks
			[]Timespan{
				{Start: timeDate(2023, 1, 4, 10, 0), End: timeDate(2023, 1, 4, 11, 30)},
				{Start: timeDate(2023, 1, 4, 12, 30), End: timeDate(2023, 1, 4, 13, 0)},
			},
			window,
			[]FreeBlock{
				NewFreeBlock(timeDate(2023, 1, 4, 9, 0), timeDate(2023, 1, 4, 10, 0)),
				NewFreeBlock(timeDate(2023, 1, 4, 11, 30), timeDate(2023, 1, 4, 12, 30)),
				NewFreeBlock(timeDate(2023, 1, 4, 13, 0), timeDate(2023, 1, 4, 19, 0)),
			},
		},
		{
			// Case no events at all yields the whole window
			nil,
			window,
			[]FreeBlock{
				NewFreeBlock(timeDate(2023, 1, 4, 9, 0), timeDate(2023, 1, 4, 19, 0)),
			},
		},
		{
			// Case unsorted input is handled
			[]Timespan{
				{Start: timeDate(2023, 1, 4, 12, 30), End: timeDate(2023, 1, 4, 13, 0)},
				{Start: timeDate(2023, 1, 4, 10, 0), End: timeDate(2023, 1, 4, 11, 30)},
			},
			window,
			[]FreeBlock{
				NewFreeBlock(timeDate(2023, 1, 4, 9, 0), timeDate(2023, 1, 4, 10, 0)),
				NewFreeBlock(timeDate(2023, 1, 4, 11, 30), timeDate(2023, 1, 4, 12, 30)),
				NewFreeBlock(timeDate(2023, 1, 4, 13, 0), timeDate(2023, 1, 4, 19, 0)),
			},
		},
		{
			// Case overlapping and nested events merge
			[]Timespan{
				{Start: timeDate(2023, 1, 4, 10, 0), End: timeDate(2023, 1, 4, 12, 0)},
				{Start: timeDate(2023, 1, 4, 11, 0), End: timeDate(2023, 1, 4, 13, 0)},
				{Start: timeDate(2023, 1, 4, 11, 15), End: timeDate(2023, 1, 4, 11, 45)},
			},
			window,
			[]FreeBlock{
				NewFreeBlock(timeDate(2023, 1, 4, 9, 0), timeDate(2023, 1, 4, 10, 0)),
				NewFreeBlock(timeDate(2023, 1, 4, 13, 0), timeDate(2023, 1, 4, 19, 0)),
			},
		},
		{
			// Case event crossing the window start is clipped
			[]Timespan{
				{Start: timeDate(2023, 1, 4, 8, 0), End: timeDate(2023, 1, 4, 9, 30)},
			},
			window,
			[]FreeBlock{
				NewFreeBlock(timeDate(2023, 1, 4, 9, 30), timeDate(2023, 1, 4, 19, 0)),
			},
		},
		{
			// Case event fully outside the window is ignored
			[]Timespan{
				{Start: timeDate(2023, 1, 4, 20, 0), End: timeDate(2023, 1, 4, 21, 0)},
			},
			window,
			[]FreeBlock{
				NewFreeBlock(timeDate(2023, 1, 4, 9, 0), timeDate(2023, 1, 4, 19, 0)),
			},
		},
		{
			// Case zero duration event is a no op
			[]Timespan{
				{Start: timeDate(2023, 1, 4, 12, 0), End: timeDate(2023, 1, 4, 12, 0)},
			},
			window,
			[]FreeBlock{
				NewFreeBlock(timeDate(2023, 1, 4, 9, 0), timeDate(2023, 1, 4, 19, 0)),
			},
		},
		{
			// Case gap below the threshold is swallowed
			[]Timespan{
				{Start: timeDate(2023, 1, 4, 9, 0), End: timeDate(2023, 1, 4, 12, 0)},
				{Start: timeDate(2023, 1, 4, 12, 10), End: timeDate(2023, 1, 4, 19, 0)},
			},
			window,
			nil,
		},
		{
			// Case trailing gap below the threshold is swallowed
			[]Timespan{
				{Start: timeDate(2023, 1, 4, 9, 0), End: timeDate(2023, 1, 4, 18, 50)},
			},
			window,
			nil,
		},
		{
			// Case exactly threshold sized gap still counts
			[]Timespan{
				{Start: timeDate(2023, 1, 4, 9, 15), End: timeDate(2023, 1, 4, 19, 0)},
			},
			window,
			[]FreeBlock{
				NewFreeBlock(timeDate(2023, 1, 4, 9, 0), timeDate(2023, 1, 4, 9, 15)),
			},
		},
	}

	for index, tt := range freeBlockTests {
		t.Run(fmt.Sprintf("Case %d", index), func(t *testing.T) {
			got := ComputeFreeBlocks(tt.busy, tt.window, MinimumFreeBlockGap)
			if !reflect.DeepEqual(got, tt.out) {
				t.Errorf("got %v, want %v", got, tt.out)
			}
		})
	}
}

// The free blocks plus the merged busy intervals must tile the window
// without overlaps or uncovered gaps of threshold length.
func TestComputeFreeBlocks_Tiling(t *testing.T) {
	t.Parallel()

	window := Timespan{Start: timeDate(2023, 1, 4, 9, 0), End: timeDate(2023, 1, 4, 19, 0)}
	busy := []Timespan{
		{Start: timeDate(2023, 1, 4, 8, 30), End: timeDate(2023, 1, 4, 9, 45)},
		{Start: timeDate(2023, 1, 4, 10, 0), End: timeDate(2023, 1, 4, 11, 30)},
		{Start: timeDate(2023, 1, 4, 11, 0), End: timeDate(2023, 1, 4, 12, 0)},
		{Start: timeDate(2023, 1, 4, 14, 0), End: timeDate(2023, 1, 4, 15, 0)},
	}

	blocks := ComputeFreeBlocks(busy, window, MinimumFreeBlockGap)

	all := append([]Timespan{}, busy...)
	for _, block := range blocks {
		all = append(all, block.Timespan())
	}
	intervals := MergeTimespans(all)

	covered := false
	for _, interval := range intervals {
		if interval.Contains(window) {
			covered = true
		}
	}
	if !covered {
		t.Errorf("window %v is not fully covered by busy %v + free %v", window, busy, blocks)
	}

	for i := 0; i < len(blocks)-1; i++ {
		if !blocks[i].End.Before(blocks[i+1].Start) && !blocks[i].End.Equal(blocks[i+1].Start) {
			t.Errorf("blocks %v and %v overlap or are out of order", blocks[i], blocks[i+1])
		}
		if blocks[i].DurationMinutes < 15 {
			t.Errorf("block %v is shorter than the minimum gap", blocks[i])
		}
	}
}
