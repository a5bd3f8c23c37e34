package expression

import (
	"fmt"
	"runtime"
	"sort"

	"github.com/grailbio/base/traverse"
)

// Counts maps a feature ID to its raw read count. It is read-only during a
// pipeline run; duplicate-ID detection is the reader's concern.
type Counts map[string]uint64

// Total returns the corpus-wide count sum.
func (c Counts) Total() uint64 {
	var n uint64
	for _, count := range c {
		n += count
	}
	return n
}

// Features maps a feature ID to its exonic intervals, in annotation file
// order, possibly overlapping. An entry never holds an empty list.
type Features map[string][]Interval

// Expression is one (feature ID, normalized value) output pair.
type Expression struct {
	ID    string
	Value float64
}

// MissingFeatureError reports a counted feature ID with no entry in the
// annotation. The counts source and the annotation source are expected to
// agree; Assemble enforces the contract but cannot repair it.
type MissingFeatureError struct {
	ID string
}

func (e *MissingFeatureError) Error() string {
	return fmt.Sprintf("feature %q has no annotation", e.ID)
}

// Assemble joins counts against features by ID, merges each feature's
// intervals, applies the normalization selected by opts.Mode, and returns
// the results sorted by feature ID (lexicographic byte order) regardless of
// map iteration order. Annotated features with no counts do not appear in
// the output.
//
// Assemble is all-or-nothing: if any counted ID is missing from features, it
// returns a *MissingFeatureError and no partial results.
//
// Per-feature work is spread across opts.Parallelism goroutines. The
// aggregate float sums are accumulated in sorted-ID order, so results are
// reproducible run to run for identical inputs.
func Assemble(counts Counts, features Features, opts Opts) ([]Expression, error) {
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// Check the counts<->annotation contract up front so no work is wasted
	// on a batch that is going to abort. Scanning in sorted order makes the
	// reported ID deterministic when several are missing.
	for _, id := range ids {
		if _, ok := features[id]; !ok {
			return nil, &MissingFeatureError{ID: id}
		}
	}
	if len(ids) == 0 {
		return []Expression{}, nil
	}

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > len(ids) {
		parallelism = len(ids)
	}
	shard := func(body func(i int)) {
		_ = traverse.Each(parallelism, func(jobIdx int) error {
			startIdx := jobIdx * len(ids) / parallelism
			endIdx := (jobIdx + 1) * len(ids) / parallelism
			for i := startIdx; i < endIdx; i++ {
				body(i)
			}
			return nil
		})
	}

	lengths := make([]uint64, len(ids))
	shard(func(i int) {
		lengths[i] = CoveredLength(features[ids[i]])
	})

	exprs := make([]Expression, len(ids))
	switch opts.Mode {
	case ModeFPKM:
		totalCount := counts.Total()
		shard(func(i int) {
			exprs[i] = Expression{ID: ids[i], Value: FPKM(counts[ids[i]], lengths[i], totalCount)}
		})
	case ModeTPM:
		// Phase 1: every CPB must be known before any TPM can be finalized.
		cpbs := make([]float64, len(ids))
		shard(func(i int) {
			cpbs[i] = CPB(counts[ids[i]], lengths[i])
		})
		var cpbSum float64
		for _, cpb := range cpbs {
			cpbSum += cpb
		}
		// Phase 2.
		shard(func(i int) {
			exprs[i] = Expression{ID: ids[i], Value: TPM(cpbs[i], cpbSum)}
		})
	default:
		panic(fmt.Sprintf("expression.Assemble: unknown mode %v", opts.Mode))
	}
	return exprs, nil
}
