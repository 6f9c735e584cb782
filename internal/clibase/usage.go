// internal/clibase/usage.go
package clibase

import (
	"flag"
	"fmt"
	"io"

	"cloudalign/internal/version"
)

// UsageCommon installs a shared Usage() handler on fs.
// extra prints tool-specific sections (usage line, alignment parameters).
func UsageCommon(fs *flag.FlagSet, name string, extra func(out io.Writer, def func(string) string)) {
	fs.Usage = func() {
		out := fs.Output()
		def := func(flagName string) string {
			if f := fs.Lookup(flagName); f != nil {
				return f.DefValue
			}
			return ""
		}

		fmt.Fprintf(out, "%s: seeded profile-HMM protein alignment\n\n", name)
		fmt.Fprintln(out, "License: MIT")
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)

		if extra != nil {
			extra(out, def)
		}

		fmt.Fprintln(out, "\nInput:")
		fmt.Fprintln(out, "  -m, --hmm file              HMMER3 profile file(s) (repeatable) [*]")
		fmt.Fprintln(out, "  -t, --targets file          FASTA target file(s) (repeatable) or '-' for STDIN [*]")
		fmt.Fprintln(out, "  -s, --seeds file            Seed file: JSON or MMseqs2 TSV, '-' for STDIN [*]")
		fmt.Fprintf(out, "      --seed-format string    Seed format: auto | json | mmseqs [%s]\n", def("seed-format"))
		fmt.Fprintln(out, "      --config file           JSON config file; command-line flags win")

		fmt.Fprintln(out, "\nOutput:")
		fmt.Fprintf(out, "  -o, --output string         Output: text | json | jsonl [%s]\n", def("output"))
		fmt.Fprintf(out, "      --pretty                Aligned block after each row (text) [%s]\n", def("pretty"))
		fmt.Fprintf(out, "      --sort                  Sort outputs deterministically [%s]\n", def("sort"))
		fmt.Fprintf(out, "      --no-header             Suppress header line [%s]\n", def("no-header"))
		fmt.Fprintf(out, "      --no-match-exit-code int  Exit code when no alignment is reported [%s]\n", def("no-match-exit-code"))
		fmt.Fprintln(out, "      --metrics-file file     Write Prometheus metrics at exit")
		fmt.Fprintln(out, "      --trace-file file       Write OpenTelemetry spans as JSON")

		fmt.Fprintln(out, "\nMiscellaneous:")
		fmt.Fprintln(out, "      --verbose               Info logging; repeat or use -vv for debug")
		fmt.Fprintln(out, "  -q, --quiet                 Only log errors")
		fmt.Fprintln(out, "  -v, --version               Print version and exit")
		fmt.Fprintln(out, "      --examples              Show quickstart examples and exit")
		fmt.Fprintln(out, "  -h, --help                  Show this help and exit")
	}
}
