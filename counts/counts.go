// Package counts reads htseq-count style feature count tables.
package counts

import (
	"io"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/expression"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// htseq-count (> 0.5.4) appends special counters such as "__no_feature"
// after the per-feature rows.
const htseqMetaPrefix = "__"

// Read parses two-column TSV data, feature ID then count, and returns the
// ID-to-count map. Reading stops at EOF or at the first ID beginning with
// "__". Duplicate IDs, malformed rows, and negative counts are errors.
func Read(r io.Reader) (expression.Counts, error) {
	rd := tsv.NewReader(r)
	counts := expression.Counts{}
	var row struct {
		Name  string
		Count int
	}
	for {
		if err := rd.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrap(err, "counts.Read")
		}
		if strings.HasPrefix(row.Name, htseqMetaPrefix) {
			break
		}
		if row.Count < 0 {
			return nil, errors.Errorf("counts.Read: negative count %d for feature %q", row.Count, row.Name)
		}
		if _, ok := counts[row.Name]; ok {
			return nil, errors.Errorf("counts.Read: duplicate feature identifier %q", row.Name)
		}
		counts[row.Name] = uint64(row.Count)
	}
	return counts, nil
}

// ReadPath is a wrapper for Read that takes a path instead of an io.Reader.
// Gzip-compressed inputs are detected from the path.
func ReadPath(path string) (counts expression.Counts, err error) {
	ctx := vcontext.Background()
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(in.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		if reader, err = gzip.NewReader(reader); err != nil {
			return
		}
	}
	if counts, err = Read(reader); err != nil {
		return
	}
	log.Printf("%s: %d feature count(s) loaded", path, len(counts))
	return
}
