package output

// Output formats
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// TSVHeader is the canonical header row for text/TSV outputs.
// Keep this as the single source of truth; all writers should use it.
const TSVHeader = "target\tprofile\ttarget_start\ttarget_end\tprofile_start\tprofile_end\tbits\tevalue\tbias\tidentity\tcigar"
