package main

/*
bio-expression computes per-gene normalized expression values (FPKM or TPM)
from an htseq-count style count table and a GTF/GFFv2 annotation, writing one
"id<TAB>value" line per feature in ID order.
*/

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/expression"
	"github.com/grailbio/expression/annotation"
	"github.com/grailbio/expression/counts"
)

var (
	annotationsPath = flag.String("annotations", "", "Input GTF/GFFv2 annotations path (required)")
	featureType     = flag.String("type", annotation.DefaultOpts.FeatureType, "Feature type (GTF column 3) to count")
	featureID       = flag.String("id", annotation.DefaultOpts.IDAttribute, "Feature attribute to use as the feature identity")
	mode            = flag.String("mode", expression.DefaultOpts.Mode.String(), "Normalization to compute; 'fpkm' or 'tpm'")
	outPath         = flag.String("out", "", "Output TSV path; writes to stdout if empty")
	parallelism     = flag.Int("parallelism", 0, "Maximum number of simultaneous normalization jobs; 0 = runtime.NumCPU()")
)

func bioExpressionUsage() {
	fmt.Printf("Usage: %s [OPTIONS] countspath\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = bioExpressionUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 1 {
		log.Fatalf("Exactly one positional argument (countspath) expected, got %d; see -help", flag.NArg())
	}
	countsPath := flag.Arg(0)
	if *annotationsPath == "" {
		log.Fatalf("-annotations is required")
	}
	opts := expression.DefaultOpts
	opts.Parallelism = *parallelism
	switch *mode {
	case "fpkm":
		opts.Mode = expression.ModeFPKM
	case "tpm":
		opts.Mode = expression.ModeTPM
	default:
		log.Fatalf("Unrecognized -mode %q; 'fpkm' and 'tpm' supported", *mode)
	}

	ctx := vcontext.Background()
	features, err := annotation.ReadPath(ctx, *annotationsPath, annotation.Opts{
		FeatureType: *featureType,
		IDAttribute: *featureID,
	})
	if err != nil {
		log.Fatalf("read annotations %s: %v", *annotationsPath, err)
	}
	c, err := counts.ReadPath(countsPath)
	if err != nil {
		log.Fatalf("read counts %s: %v", countsPath, err)
	}
	exprs, err := expression.Assemble(c, features, opts)
	if err != nil {
		log.Fatalf("%v", err)
	}
	writeExpressions(ctx, *outPath, exprs)
}

// writeExpressions emits the id<TAB>value lines to path, or to stdout if
// path is empty.
func writeExpressions(ctx context.Context, path string, exprs []expression.Expression) {
	var w *tsv.Writer
	if path == "" {
		w = tsv.NewWriter(os.Stdout)
	} else {
		out, err := file.Create(ctx, path)
		if err != nil {
			log.Fatalf("create %s: %v", path, err)
		}
		defer func() {
			if err := out.Close(ctx); err != nil {
				log.Fatalf("close %s: %v", path, err)
			}
		}()
		w = tsv.NewWriter(out.Writer(ctx))
	}
	er := errors.Once{}
	for _, e := range exprs {
		w.WriteString(e.ID)
		w.WriteString(strconv.FormatFloat(e.Value, 'g', -1, 64))
		er.Set(w.EndLine())
	}
	er.Set(w.Flush())
	if er.Err() != nil {
		log.Fatalf("write expressions: %v", er.Err())
	}
}
