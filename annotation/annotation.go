// Package annotation reads GTF/GFFv2 genome annotations into the per-feature
// interval lists consumed by the expression pipeline.
package annotation

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/expression"
	"github.com/pkg/errors"
)

// Opts controls which GTF records define a feature.
type Opts struct {
	// FeatureType selects records by GTF column 3, e.g. "exon" or "gene".
	FeatureType string
	// IDAttribute is the column-9 attribute key used as the feature
	// identity, e.g. "gene_id" or "gene_name".
	IDAttribute string
}

// DefaultOpts sets the default values of Opts.
var DefaultOpts = Opts{
	FeatureType: "exon",    // -type
	IDAttribute: "gene_id", // -id
}

// gtfRecord holds one data line of a GTF/GFFv2 file.
type gtfRecord struct {
	Chrom   string
	Source  string
	Feature string
	Start   int
	End     int
	Score   string // unused; often "."
	Strand  string
	Frame   string
	Attrs   string
}

// Read parses GTF/GFFv2 data and returns a map from feature ID to the
// intervals of all records whose type matches opts.FeatureType, in file
// order. Coordinates are 1-based and inclusive. Comment lines are skipped.
// A matching record without the ID attribute is an error.
func Read(r io.Reader, opts Opts) (expression.Features, error) {
	rd := tsv.NewReader(bufio.NewReaderSize(r, 64<<10))
	rd.Comment = '#'
	rd.LazyQuotes = true

	features := expression.Features{}
	attrs := map[string]string{}
	var line gtfRecord
	for {
		if err := rd.Read(&line); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrap(err, "annotation.Read")
		}
		if line.Feature != opts.FeatureType {
			continue
		}
		if line.Start < 1 || line.End < line.Start {
			return nil, errors.Errorf("annotation.Read: invalid coordinate pair [%d, %d] on %s", line.Start, line.End, line.Chrom)
		}
		parseAttributes(attrs, line.Attrs)
		id, ok := attrs[opts.IDAttribute]
		if !ok {
			return nil, errors.Errorf("annotation.Read: missing attribute %q at %s:%d-%d", opts.IDAttribute, line.Chrom, line.Start, line.End)
		}
		features[id] = append(features[id], expression.Interval{Start: uint64(line.Start), End: uint64(line.End)})
	}
	return features, nil
}

// parseAttributes fills parsed with the key-value pairs of a GTF column-9
// attribute list (`key "value"; ...`). parsed is cleared first so one map
// can be reused across records.
func parseAttributes(parsed map[string]string, attrs string) {
	for k := range parsed {
		delete(parsed, k)
	}
	for _, field := range strings.Split(strings.TrimSpace(attrs), ";") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		pair := strings.SplitN(field, " ", 2)
		if len(pair) != 2 {
			continue
		}
		parsed[pair[0]] = strings.Trim(pair[1], "\"")
	}
}

// ReadPath is a wrapper for Read that takes a path instead of an io.Reader.
// Gzip-compressed inputs are detected from the path.
func ReadPath(ctx context.Context, path string, opts Opts) (features expression.Features, err error) {
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	if features, err = Read(r, opts); err != nil {
		return
	}
	log.Printf("%s: %d feature(s) loaded", path, len(features))
	return
}
