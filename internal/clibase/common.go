// internal/clibase/common.go
package clibase

import (
	"errors"
	"flag"
	"fmt"
	"strconv"

	"cloudalign/internal/cliutil"
	"cloudalign/internal/output"
	"cloudalign/internal/seeds"
)

// Common holds the input, output and logging flags of cloudalign tools.
type Common struct {
	// Input
	HMMFiles    []string
	TargetFiles []string
	SeedsFile   string
	SeedFormat  string
	ConfigFile  string

	// Output
	Output          string // text|json|jsonl
	Pretty          bool
	Sort            bool
	Header          bool
	NoMatchExitCode int
	MetricsFile     string
	TraceFile       string

	// Misc
	Verbose int
	Quiet   bool
	Version bool
}

// sliceValue appends each value to a *[]string (for --hmm/--targets)
type sliceValue struct{ dst *[]string }

func (s *sliceValue) String() string {
	if s.dst == nil {
		return ""
	}
	return fmt.Sprint(*s.dst)
}
func (s *sliceValue) Set(v string) error {
	*s.dst = append(*s.dst, v)
	return nil
}

// countValue is a bool flag that counts repetitions (--verbose --verbose).
type countValue struct{ dst *int }

func (c *countValue) String() string {
	if c.dst == nil {
		return "0"
	}
	return strconv.Itoa(*c.dst)
}
func (c *countValue) Set(v string) error {
	on, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}
	if on {
		*c.dst++
	}
	return nil
}
func (c *countValue) IsBoolFlag() bool { return true }

// levelValue sets *dst to a fixed level when given (-vv).
type levelValue struct {
	dst   *int
	level int
}

func (l *levelValue) String() string { return "false" }
func (l *levelValue) Set(v string) error {
	on, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}
	if on && *l.dst < l.level {
		*l.dst = l.level
	}
	return nil
}
func (l *levelValue) IsBoolFlag() bool { return true }

// Register wires shared flags onto fs and returns a pointer to the "no-header" bool
// that the caller can use to set Common.Header = !noHeader after parsing.
func Register(fs *flag.FlagSet, c *Common) *bool {
	// Inputs
	hmmVal := &sliceValue{dst: &c.HMMFiles}
	fs.Var(hmmVal, "hmm", "HMMER3 profile file(s) (repeatable)")
	fs.Var(hmmVal, "m", "alias of --hmm")
	tgtVal := &sliceValue{dst: &c.TargetFiles}
	fs.Var(tgtVal, "targets", "FASTA target file(s) (repeatable) or '-'")
	fs.Var(tgtVal, "t", "alias of --targets")
	fs.StringVar(&c.SeedsFile, "seeds", "", "seed file (JSON or MMseqs2 TSV)")
	fs.StringVar(&c.SeedsFile, "s", "", "alias of --seeds")
	fs.StringVar(&c.SeedFormat, "seed-format", seeds.FormatAuto, "seed format: auto | json | mmseqs [auto]")
	fs.StringVar(&c.ConfigFile, "config", "", "JSON config file (flags override its keys)")

	// Output
	fs.StringVar(&c.Output, "output", output.FormatText, "output: text | json | jsonl [text]")
	fs.StringVar(&c.Output, "o", output.FormatText, "alias of --output")
	fs.BoolVar(&c.Pretty, "pretty", false, "aligned block after each row (text) [false]")
	fs.BoolVar(&c.Sort, "sort", false, "sort outputs deterministically [false]")
	noHeader := false
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line [false]")
	fs.IntVar(&c.NoMatchExitCode, "no-match-exit-code", 1, "exit code when no alignment is reported [1]")
	fs.StringVar(&c.MetricsFile, "metrics-file", "", "write Prometheus metrics to this file at exit")
	fs.StringVar(&c.TraceFile, "trace-file", "", "write OpenTelemetry spans (JSON) to this file")

	// Misc
	fs.Var(&countValue{dst: &c.Verbose}, "verbose", "more logging (repeatable) [false]")
	fs.Var(&levelValue{dst: &c.Verbose, level: 2}, "vv", "debug logging [false]")
	fs.BoolVar(&c.Quiet, "quiet", false, "only log errors [false]")
	fs.BoolVar(&c.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&c.Version, "v", false, "print version and exit [false]")
	fs.BoolVar(&c.Version, "version", false, "print version and exit [false]")

	return &noHeader
}

// AfterParse finalizes header and expands positionals, then runs shared validation.
func AfterParse(fs *flag.FlagSet, c *Common, noHeader *bool, posArgs []string) error {
	c.Header = !*noHeader

	if len(posArgs) > 0 {
		c.TargetFiles = append(c.TargetFiles, posArgs...)
	}
	if len(c.TargetFiles) > 0 {
		exp, err := cliutil.ExpandPositionals(c.TargetFiles)
		if err != nil {
			return err
		}
		c.TargetFiles = exp
	}
	return Validate(c)
}

// Validate applies shared CLI invariants used by all tools.
func Validate(c *Common) error {
	if len(c.HMMFiles) == 0 {
		return errors.New("at least one --hmm file is required")
	}
	if len(c.TargetFiles) == 0 {
		return errors.New("at least one target file is required")
	}
	if c.SeedsFile == "" {
		return errors.New("--seeds is required")
	}
	stdin := 0
	for _, p := range c.TargetFiles {
		if p == "-" {
			stdin++
		}
	}
	if c.SeedsFile == "-" && stdin > 0 {
		return errors.New("--seeds and --targets cannot both read stdin")
	}
	switch c.SeedFormat {
	case seeds.FormatAuto, seeds.FormatJSON, seeds.FormatMMseqs:
	default:
		return fmt.Errorf("invalid --seed-format %q", c.SeedFormat)
	}
	switch c.Output {
	case output.FormatText, output.FormatJSON, output.FormatJSONL:
	default:
		return fmt.Errorf("invalid --output %q", c.Output)
	}
	if c.Pretty && c.Output != output.FormatText {
		return errors.New("--pretty only applies to --output text")
	}
	if c.NoMatchExitCode < 0 || c.NoMatchExitCode > 255 {
		return errors.New("--no-match-exit-code must be between 0 and 255")
	}
	return nil
}
