package expression

// See <https://statquest.org/2015/07/09/rpkm-fpkm-and-tpm-clearly-explained/>
// for a walkthrough of both normalizations.

// FPKM returns fragments per kilobase of transcript per million mapped
// fragments for one feature. length is the feature's covered length in
// bases, and totalCount is the corpus-wide count sum, computed once per run.
//
// A zero count yields exactly 0. A zero totalCount (no counts anywhere)
// yields a non-finite value; the input is genuinely undefined and is not
// special-cased here.
func FPKM(count, length, totalCount uint64) float64 {
	return float64(count) * 1e9 / (float64(length) * float64(totalCount))
}

// CPB returns the counts-per-base intermediate used by TPM. TPM requires
// every feature's CPB before any TPM can be finalized, so callers compute
// all CPBs in a first pass, sum them, and then call TPM.
func CPB(count, length uint64) float64 {
	return float64(count) / float64(length)
}

// TPM returns transcripts per million for one feature given its
// counts-per-base and the corpus-wide CPB sum. As with FPKM, a zero cpbSum
// yields a non-finite value.
func TPM(cpb, cpbSum float64) float64 {
	return cpb * 1e6 / cpbSum
}
