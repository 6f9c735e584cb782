// internal/cliutil/cliutil.go
package cliutil

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"
)

type boolFlag interface{ IsBoolFlag() bool }

// takesValue reports whether the flag called name consumes the next argument.
// Unknown names are treated as valued so fs.Parse reports them.
func takesValue(fs *flag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	if f == nil {
		return true
	}
	if bf, ok := f.Value.(boolFlag); ok && bf.IsBoolFlag() {
		return false
	}
	return true
}

// SplitFlagsAndPositionals separates flag-like args from positionals so that
// target files may appear anywhere on the command line. "-" is a positional
// (stdin) and everything after "--" is positional.
func SplitFlagsAndPositionals(fs *flag.FlagSet, argv []string) (flagArgs, posArgs []string) {
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "--":
			return flagArgs, append(posArgs, argv[i+1:]...)
		case arg == "-" || !strings.HasPrefix(arg, "-"):
			posArgs = append(posArgs, arg)
			continue
		}
		flagArgs = append(flagArgs, arg)
		name := strings.TrimLeft(arg, "-")
		if strings.Contains(name, "=") {
			continue
		}
		if takesValue(fs, name) && i+1 < len(argv) {
			flagArgs = append(flagArgs, argv[i+1])
			i++
		}
	}
	return flagArgs, posArgs
}

// ExpandPositionals expands globs among path-like positionals and drops
// repeated paths, keeping first-seen order. Stdin may be named only once.
func ExpandPositionals(posArgs []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool, len(posArgs))
	add := func(p string) error {
		if seen[p] {
			if p == "-" {
				return errors.New("stdin ('-') given more than once")
			}
			return nil
		}
		seen[p] = true
		out = append(out, p)
		return nil
	}
	for _, a := range posArgs {
		if a == "-" || !strings.ContainsAny(a, "*?[") {
			if err := add(a); err != nil {
				return nil, err
			}
			continue
		}
		m, err := filepath.Glob(a)
		if err != nil {
			return nil, fmt.Errorf("bad glob %q: %v", a, err)
		}
		if len(m) == 0 {
			return nil, fmt.Errorf("no input matched %q", a)
		}
		for _, p := range m {
			if err := add(p); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
