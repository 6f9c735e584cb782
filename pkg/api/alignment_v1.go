// pkg/api/alignment_v1.go
package api

// AlignmentV1 is the stable JSON/JSONL schema for one reported domain alignment.
// Coordinates are 1-based and inclusive. Keep fields, names, and types stable.
// Add new fields only with ",omitempty".
type AlignmentV1 struct {
	Target       string `json:"target"`
	Profile      string `json:"profile"`
	Accession    string `json:"accession,omitempty"`
	TargetStart  int    `json:"target_start"`
	TargetEnd    int    `json:"target_end"`
	TargetLen    int    `json:"target_len"`
	ProfileStart int    `json:"profile_start"`
	ProfileEnd   int    `json:"profile_end"`
	ProfileLen   int    `json:"profile_len"`

	Bits     float64 `json:"bits"`
	EValue   float64 `json:"evalue"`
	PValue   float64 `json:"pvalue"`
	Bias     float64 `json:"bias"`   // bits
	Method   string  `json:"method"` // "viterbi" | "posterior"
	Identity float64 `json:"identity"`

	States string `json:"states"`
	Cigar  string `json:"cigar"`

	ProfileLine string `json:"profile_line,omitempty"`
	Midline     string `json:"midline,omitempty"`
	TargetLine  string `json:"target_line,omitempty"`
	PostLine    string `json:"posterior_line,omitempty"`

	// Pairs lists aligned columns as [profile, target]; -1 marks a gap.
	Pairs [][2]int `json:"pairs,omitempty"`

	RegionTargetStart int `json:"region_target_start"`
	RegionTargetEnd   int `json:"region_target_end"`
	RegionSeeds       int `json:"region_seeds"`
	Cells             int `json:"cells"`
}
