package annotation

import (
	"strings"
	"testing"

	"github.com/grailbio/expression"
	"github.com/grailbio/testutil/expect"
)

const gtfData = `##description: test annotation
#provider: GENCODE
chr1	HAVANA	gene	11869	14409	.	+	.	gene_id "ENSG00000223972.5"; gene_type "transcribed_unprocessed_pseudogene"; gene_name "DDX11L1"; level 2;
chr1	HAVANA	exon	11869	12227	.	+	.	gene_id "ENSG00000223972.5"; gene_name "DDX11L1"; exon_number 1;
chr1	HAVANA	exon	12613	12721	.	+	.	gene_id "ENSG00000223972.5"; gene_name "DDX11L1"; exon_number 2;
chr1	HAVANA	exon	16440672	16440853	.	-	.	gene_id "ENSG00000157191.17"; gene_name "NECAP2"; exon_number 1;
`

func TestRead(t *testing.T) {
	features, err := Read(strings.NewReader(gtfData), DefaultOpts)
	expect.NoError(t, err)
	expect.EQ(t, features, expression.Features{
		"ENSG00000223972.5":  {{Start: 11869, End: 12227}, {Start: 12613, End: 12721}},
		"ENSG00000157191.17": {{Start: 16440672, End: 16440853}},
	})
}

func TestReadByGeneName(t *testing.T) {
	features, err := Read(strings.NewReader(gtfData), Opts{
		FeatureType: "exon",
		IDAttribute: "gene_name",
	})
	expect.NoError(t, err)
	expect.EQ(t, len(features), 2)
	expect.EQ(t, features["DDX11L1"], []expression.Interval{{Start: 11869, End: 12227}, {Start: 12613, End: 12721}})
	expect.EQ(t, features["NECAP2"], []expression.Interval{{Start: 16440672, End: 16440853}})
}

func TestReadFeatureTypeFilter(t *testing.T) {
	features, err := Read(strings.NewReader(gtfData), Opts{
		FeatureType: "gene",
		IDAttribute: "gene_id",
	})
	expect.NoError(t, err)
	expect.EQ(t, features, expression.Features{
		"ENSG00000223972.5": {{Start: 11869, End: 14409}},
	})
}

func TestReadMissingAttribute(t *testing.T) {
	_, err := Read(strings.NewReader(gtfData), Opts{
		FeatureType: "exon",
		IDAttribute: "transcript_id",
	})
	expect.True(t, err != nil)
	expect.True(t, strings.Contains(err.Error(), "transcript_id"), "got %v", err)
}

func TestReadInvalidCoordinates(t *testing.T) {
	for _, line := range []string{
		"chr1\tHAVANA\texon\t0\t100\t.\t+\t.\tgene_id \"G1\";\n",
		"chr1\tHAVANA\texon\t200\t100\t.\t+\t.\tgene_id \"G1\";\n",
	} {
		_, err := Read(strings.NewReader(line), DefaultOpts)
		expect.True(t, err != nil, "input %q", line)
	}
}

func TestParseAttributes(t *testing.T) {
	attrs := map[string]string{}
	parseAttributes(attrs, `gene_id "ENSG00000223972.5"; gene_type "transcribed_unprocessed_pseudogene"; gene_name "DDX11L1"; level 2; havana_gene "OTTHUMG00000000961.2";`)
	expect.EQ(t, attrs, map[string]string{
		"gene_id":     "ENSG00000223972.5",
		"gene_type":   "transcribed_unprocessed_pseudogene",
		"gene_name":   "DDX11L1",
		"level":       "2",
		"havana_gene": "OTTHUMG00000000961.2",
	})

	// Reuse clears stale keys.
	parseAttributes(attrs, `gene_id "G1";`)
	expect.EQ(t, attrs, map[string]string{"gene_id": "G1"})
}
