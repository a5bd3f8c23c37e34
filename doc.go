// Package expression computes per-gene normalized expression values (FPKM or
// TPM) from a table of raw read counts and the exonic intervals of each
// feature. The pipeline has three stages: per-feature interval merging,
// FPKM/TPM normalization, and an ID-ordered join of counts against the
// annotation. Reading count tables and GTF annotations lives in the counts
// and annotation subpackages.
package expression
