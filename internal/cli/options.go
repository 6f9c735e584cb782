// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"cloudalign/internal/clibase"
	"cloudalign/internal/cliutil"
	"cloudalign/internal/config"
)

// Options holds all CLI flags and arguments.
type Options struct {
	clibase.Common

	// Config is the effective alignment configuration: defaults, then the
	// --config file, then flags given on the command line.
	Config config.Config

	// Set names the config keys given explicitly as flags.
	Set map[string]bool

	// MaxDomains caps reported alignments per (profile, target) pair; 0 keeps all.
	MaxDomains int
}

// configKeys are the flags that mirror config.Config fields.
var configKeys = []string{
	"tolerance", "min-seed-score", "min-cells",
	"trim-threshold", "mode",
	"min-score", "max-evalue", "max-cells",
	"flank-model", "bias-correction", "db-size",
	"threads", "profile-mode",
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "Usage:")
		_, _ = fmt.Fprintf(out, "  %s [options] --hmm profiles.hmm --seeds seeds.tsv targets.fa\n", name)

		_, _ = fmt.Fprintln(out, "\nRegions:")
		_, _ = fmt.Fprintf(out, "      --tolerance int         Band half-width around seed diagonals [%s]\n", def("tolerance"))
		_, _ = fmt.Fprintf(out, "      --min-seed-score float  Ignore seeds scoring below this (0=off) [%s]\n", def("min-seed-score"))
		_, _ = fmt.Fprintf(out, "      --min-cells int         Drop regions with fewer cells [%s]\n", def("min-cells"))
		_, _ = fmt.Fprintf(out, "      --max-cells int         DP cell budget per region (0=unlimited) [%s]\n", def("max-cells"))

		_, _ = fmt.Fprintln(out, "\nAlignment:")
		_, _ = fmt.Fprintf(out, "      --mode string           Decoding: viterbi | posterior [%s]\n", def("mode"))
		_, _ = fmt.Fprintf(out, "      --profile-mode string   Profile configuration: local | glocal [%s]\n", def("profile-mode"))
		_, _ = fmt.Fprintf(out, "      --trim-threshold float  Minimum posterior kept at alignment ends [%s]\n", def("trim-threshold"))
		_, _ = fmt.Fprintf(out, "      --flank-model string    Flank scoring: length | none [%s]\n", def("flank-model"))
		_, _ = fmt.Fprintf(out, "      --bias-correction       Apply null2 composition correction [%s]\n", def("bias-correction"))

		_, _ = fmt.Fprintln(out, "\nReporting:")
		_, _ = fmt.Fprintf(out, "      --min-score float       Report alignments scoring above this (bits) [%s]\n", def("min-score"))
		_, _ = fmt.Fprintf(out, "      --max-evalue float      Report alignments with E-value at most this (0=off) [%s]\n", def("max-evalue"))
		_, _ = fmt.Fprintf(out, "      --db-size float         Database size for E-values (0=count targets) [%s]\n", def("db-size"))
		_, _ = fmt.Fprintf(out, "      --max-domains int       Best N alignments per profile/target pair (0=all) [%s]\n", def("max-domains"))

		_, _ = fmt.Fprintln(out, "\nPerformance:")
		_, _ = fmt.Fprintf(out, "      --threads int           Worker threads (0=all CPUs) [%s]\n", def("threads"))
	})
	return fs
}

// PrintExamples prints a quickstart for cloudalign.
func PrintExamples(out io.Writer) {
	clibase.PrintExamples(out, "cloudalign", func(w io.Writer) {
		_, _ = fmt.Fprintln(w, "Align HMMER3 profiles to protein targets inside seeded regions.")
		_, _ = fmt.Fprintln(w, "\nExample:")
		_, _ = fmt.Fprintln(w, "  mmseqs convertalis qdb tdb aln seeds.m8 \\")
		_, _ = fmt.Fprintln(w, "    --format-output query,target,qstart,qend,tstart,tend,evalue,bits")
		_, _ = fmt.Fprintln(w, "  cloudalign --hmm Pfam-A.hmm --seeds seeds.m8 --sort --pretty uniprot.fa.gz")
	})
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help, showExamples bool

	var c clibase.Common
	noHeader := clibase.Register(fs, &c)

	d := config.Defaults()
	var fc config.Config
	fs.IntVar(&fc.Tolerance, "tolerance", d.Tolerance, fmt.Sprintf("band half-width [%d]", d.Tolerance))
	fs.Float64Var(&fc.MinSeedScore, "min-seed-score", d.MinSeedScore, "ignore seeds scoring below this (0=off)")
	fs.IntVar(&fc.MinCells, "min-cells", d.MinCells, "drop regions with fewer cells")
	fs.Float64Var(&fc.TrimThreshold, "trim-threshold", d.TrimThreshold, "minimum posterior kept at alignment ends")
	fs.StringVar(&fc.Mode, "mode", d.Mode, "decoding: viterbi | posterior")
	fs.Float64Var(&fc.MinScore, "min-score", d.MinScore, "report threshold in bits")
	fs.Float64Var(&fc.MaxEvalue, "max-evalue", d.MaxEvalue, "E-value threshold (0=off)")
	fs.IntVar(&fc.MaxCells, "max-cells", d.MaxCells, "DP cell budget per region (0=unlimited)")
	fs.StringVar(&fc.FlankModel, "flank-model", d.FlankModel, "flank scoring: length | none")
	fs.BoolVar(&fc.BiasCorrection, "bias-correction", d.BiasCorrection, "null2 composition correction")
	fs.Float64Var(&fc.DBSize, "db-size", d.DBSize, "database size for E-values (0=count targets)")
	fs.IntVar(&fc.Threads, "threads", d.Threads, "worker threads (0=all CPUs)")
	fs.StringVar(&fc.ProfileMode, "profile-mode", d.ProfileMode, "profile configuration: local | glocal")

	fs.IntVar(&o.MaxDomains, "max-domains", 0, "best N alignments per profile/target pair (0=all) [0]")

	fs.BoolVar(&help, "h", false, "show this help [false]")
	fs.BoolVar(&showExamples, "examples", false, "show quickstart examples and exit [false]")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return o, err
	}
	if showExamples {
		return o, clibase.ErrPrintedAndExitOK
	}
	if help {
		return o, flag.ErrHelp
	}
	if c.Version {
		o.Common = c
		return o, nil
	}

	o.Set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		for _, k := range configKeys {
			if f.Name == k {
				o.Set[k] = true
			}
		}
	})

	base := d
	if c.ConfigFile != "" {
		fileCfg, err := config.LoadJSON(c.ConfigFile, nil)
		if err != nil {
			return o, err
		}
		base = fileCfg
	}
	o.Config = config.Merge(base, fc, o.Set)
	if err := config.Validate(o.Config); err != nil {
		return o, err
	}

	if err := clibase.AfterParse(fs, &c, noHeader, posArgs); err != nil {
		return o, err
	}
	if o.MaxDomains < 0 {
		return o, errors.New("--max-domains must be >= 0")
	}
	o.Common = c
	return o, nil
}
