// Package layout assigns overlapping time blocks to side-by-side lanes so
// that no two intersecting blocks in a timeline column share a lane.
//
// Compute is pure and is re-run from scratch on every change.
package layout

import (
	"sort"

	"github.com/alexanderramin/lifesync/internal/domain"
)

// Slot is a block's horizontal placement inside its cluster.
type Slot struct {
	Lane      int
	LaneCount int
}

// WidthPct is the block's share of the column width.
func (s Slot) WidthPct() float64 {
	if s.LaneCount <= 0 {
		return 100
	}
	return 100 / float64(s.LaneCount)
}

// OffsetPct is the block's left offset inside the column.
func (s Slot) OffsetPct() float64 {
	return float64(s.Lane) * s.WidthPct()
}

// Assignment maps block id to its slot.
type Assignment map[string]Slot

// Columnar returns the scheduled blocks rendered on the given column's
// timeline. Plan selects Plan blocks; Actual and DeviceLog select both
// actual-like columns.
func Columnar(blocks []domain.TimeBlock, column domain.Column) []domain.TimeBlock {
	out := make([]domain.TimeBlock, 0, len(blocks))
	for _, b := range blocks {
		if !b.IsScheduled() || b.Duration <= 0 {
			continue
		}
		if column == domain.ColumnPlan {
			if b.Column != domain.ColumnPlan {
				continue
			}
		} else if !b.Column.ActualLike() {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Compute sorts the column's blocks by start (longer first on ties),
// splits them into clusters of transitively overlapping blocks, and packs
// each cluster first-fit into lanes.
func Compute(blocks []domain.TimeBlock, column domain.Column) Assignment {
	sorted := Columnar(blocks, column)
	result := make(Assignment, len(sorted))
	if len(sorted) == 0 {
		return result
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StartTime != sorted[j].StartTime {
			return sorted[i].StartTime < sorted[j].StartTime
		}
		return sorted[i].Duration > sorted[j].Duration
	})

	for _, cluster := range clusters(sorted) {
		packCluster(cluster, result)
	}
	return result
}

// clusters splits a start-sorted list wherever a block starts at or after
// the furthest end seen so far.
func clusters(sorted []domain.TimeBlock) [][]domain.TimeBlock {
	var out [][]domain.TimeBlock
	var current []domain.TimeBlock
	clusterEnd := 0

	for _, b := range sorted {
		if len(current) > 0 && b.StartTime >= clusterEnd {
			out = append(out, current)
			current = nil
		}
		if len(current) == 0 {
			clusterEnd = b.End()
		} else if b.End() > clusterEnd {
			clusterEnd = b.End()
		}
		current = append(current, b)
	}
	if len(current) > 0 {
		out = append(out, current)
	}
	return out
}

func packCluster(cluster []domain.TimeBlock, result Assignment) {
	var freeAt []int
	lanes := make([]int, len(cluster))

	for i, b := range cluster {
		placed := false
		for lane, free := range freeAt {
			if free <= b.StartTime {
				freeAt[lane] = b.End()
				lanes[i] = lane
				placed = true
				break
			}
		}
		if !placed {
			freeAt = append(freeAt, b.End())
			lanes[i] = len(freeAt) - 1
		}
	}

	for i, b := range cluster {
		result[b.ID] = Slot{Lane: lanes[i], LaneCount: len(freeAt)}
	}
}

// MaxOverlap is the largest number of the column's blocks that are active
// at the same minute.
func MaxOverlap(blocks []domain.TimeBlock, column domain.Column) int {
	type edge struct {
		at    int
		delta int
	}
	col := Columnar(blocks, column)
	edges := make([]edge, 0, len(col)*2)
	for _, b := range col {
		edges = append(edges, edge{b.StartTime, 1}, edge{b.End(), -1})
	}
	// Ends sort before starts at the same minute: intervals are half-open.
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].at != edges[j].at {
			return edges[i].at < edges[j].at
		}
		return edges[i].delta < edges[j].delta
	})

	best, cur := 0, 0
	for _, e := range edges {
		cur += e.delta
		if cur > best {
			best = cur
		}
	}
	return best
}
