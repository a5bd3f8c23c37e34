package expression

import "fmt"

// Mode selects the normalization applied to each feature.
type Mode int

const (
	// ModeFPKM computes fragments per kilobase of transcript per million
	// mapped fragments.
	ModeFPKM Mode = iota
	// ModeTPM computes transcripts per million.
	ModeTPM
)

func (m Mode) String() string {
	switch m {
	case ModeFPKM:
		return "fpkm"
	case ModeTPM:
		return "tpm"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Opts configures Assemble.
type Opts struct {
	// Mode is the normalization to compute.
	Mode Mode
	// Parallelism is the maximum number of simultaneous per-feature
	// merge-and-normalize jobs. 0 means runtime.NumCPU().
	Parallelism int
}

// DefaultOpts sets the default values of Opts.
var DefaultOpts = Opts{
	Mode:        ModeFPKM, // -mode
	Parallelism: 0,        // -parallelism
}
