// internal/seeds/seeds.go
package seeds

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"cloudalign-core/band"
	"cloudalign/internal/jsonutil"
)

// Input formats
const (
	FormatAuto   = "auto"
	FormatJSON   = "json"
	FormatMMseqs = "mmseqs"
)

// Table holds seeds keyed by profile name, then target name.
type Table map[string]map[string][]band.Seed

func (t Table) add(profile string, s band.Seed) {
	byTarget, ok := t[profile]
	if !ok {
		byTarget = make(map[string][]band.Seed)
		t[profile] = byTarget
	}
	byTarget[s.Target] = append(byTarget[s.Target], s)
}

// Len is the total number of seeds.
func (t Table) Len() int {
	n := 0
	for _, byTarget := range t {
		for _, list := range byTarget {
			n += len(list)
		}
	}
	return n
}

// Targets lists the target names seeded for profile, sorted.
func (t Table) Targets(profile string) []string {
	out := make([]string, 0, len(t[profile]))
	for name := range t[profile] {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the seeds of one (profile, target) pair.
func (t Table) Lookup(profile, target string) []band.Seed { return t[profile][target] }

// Load reads a seed file in the given format. "-" reads stdin.
func Load(path, format string) (Table, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = fh.Close() }()
		r = fh
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if format == "" || format == FormatAuto {
		format = Detect(path, data)
	}
	switch format {
	case FormatJSON:
		return ReadJSON(bytes.NewReader(data), path)
	case FormatMMseqs:
		return ReadMMseqs(bytes.NewReader(data), path)
	}
	return nil, fmt.Errorf("unknown seed format %q", format)
}

// Detect guesses the format from the file extension, then the first byte.
func Detect(path string, data []byte) string {
	switch {
	case strings.HasSuffix(path, ".json"):
		return FormatJSON
	case strings.HasSuffix(path, ".tsv"), strings.HasSuffix(path, ".m8"):
		return FormatMMseqs
	}
	if t := bytes.TrimLeft(data, " \t\r\n"); len(t) > 0 && t[0] == '{' {
		return FormatJSON
	}
	return FormatMMseqs
}

type jsonSeed struct {
	TargetName   string   `json:"target_name"`
	TargetStart  int      `json:"target_start"`
	TargetEnd    int      `json:"target_end"`
	ProfileStart int      `json:"profile_start"`
	ProfileEnd   int      `json:"profile_end"`
	Score        *float64 `json:"score,omitempty"`
}

// ReadJSON parses {"profile": [{target_name, target_start, ...}]}.
// src names the input in error messages.
func ReadJSON(r io.Reader, src string) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	var raw map[string][]jsonSeed
	if err := jsonutil.DecodeStrict(data, src, &raw); err != nil {
		return nil, err
	}

	t := make(Table, len(raw))
	for profile, list := range raw {
		for k, js := range list {
			s := band.Seed{
				Target:      js.TargetName,
				QueryStart:  js.ProfileStart,
				QueryEnd:    js.ProfileEnd,
				TargetStart: js.TargetStart,
				TargetEnd:   js.TargetEnd,
			}
			if js.Score != nil {
				s.Score = *js.Score
			}
			if err := check(s); err != nil {
				return nil, fmt.Errorf("%s: profile %q seed %d: %v", src, profile, k, err)
			}
			t.add(profile, s)
		}
	}
	return t, nil
}

// ReadMMseqs parses convertalis-style TSV rows:
// query target qstart qend tstart tend evalue [bits].
// The score is bits when present, otherwise -log10(evalue).
func ReadMMseqs(r io.Reader, src string) (Table, error) {
	t := make(Table)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		f := strings.Fields(line)
		if len(f) < 7 {
			return nil, fmt.Errorf("%s:%d bad field count %d, want at least 7", src, ln, len(f))
		}
		var coords [4]int
		for x := range coords {
			v, err := strconv.Atoi(f[2+x])
			if err != nil {
				return nil, fmt.Errorf("%s:%d bad coordinate %q", src, ln, f[2+x])
			}
			coords[x] = v
		}
		evalue, err := strconv.ParseFloat(f[6], 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d bad evalue %q", src, ln, f[6])
		}
		score := -math.Log10(math.Max(evalue, 1e-300))
		if len(f) >= 8 {
			if score, err = strconv.ParseFloat(f[7], 64); err != nil {
				return nil, fmt.Errorf("%s:%d bad bit score %q", src, ln, f[7])
			}
		}
		s := band.Seed{
			Target:      f[1],
			QueryStart:  coords[0],
			QueryEnd:    coords[1],
			TargetStart: coords[2],
			TargetEnd:   coords[3],
			Score:       score,
		}
		if err := check(s); err != nil {
			return nil, fmt.Errorf("%s:%d %v", src, ln, err)
		}
		t.add(f[0], s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	return t, nil
}

// check rejects seeds that cannot be attributed to a target. Coordinates
// outside the matrix are left to band.Build, which clips or drops them.
func check(s band.Seed) error {
	if s.Target == "" {
		return errors.New("missing target name")
	}
	return nil
}
