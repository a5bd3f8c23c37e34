package expression

import (
	"sort"
)

// Interval is a 1-based, inclusive genomic interval, as found in GTF/GFFv2
// annotations. Start <= End always holds for intervals produced by the
// annotation reader.
type Interval struct {
	Start uint64
	End   uint64
}

// Len returns the number of bases the interval covers.
func (i Interval) Len() uint64 {
	return i.End - i.Start + 1
}

// Merge collapses a feature's intervals into the minimal set of disjoint
// intervals covering the same genomic positions. The result is sorted by
// start position, and no two adjacent outputs overlap (b.Start > a.End for
// every adjacent pair a, b). The input is left unmodified.
//
// Merge panics on an empty list; a feature is never recorded with zero
// intervals.
func Merge(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		panic("expression.Merge: empty interval list")
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	merged := make([]Interval, 1, len(sorted))
	merged[0] = sorted[0]
	for _, b := range sorted[1:] {
		a := &merged[len(merged)-1]
		if b.Start > a.End {
			merged = append(merged, b)
			continue
		}
		// b overlaps a. Extend, never truncate: a fully nested b must not
		// shrink a's end.
		if a.End < b.End {
			a.End = b.End
		}
	}
	return merged
}

// CoveredLength returns the total number of distinct bases covered by the
// given intervals, i.e. the summed length of their merged union. This is the
// effective feature length used by the FPKM/TPM formulas.
func CoveredLength(intervals []Interval) uint64 {
	var n uint64
	for _, i := range Merge(intervals) {
		n += i.Len()
	}
	return n
}
