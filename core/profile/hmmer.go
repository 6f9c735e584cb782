// core/profile/hmmer.go
package profile

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"cloudalign-core/alphabet"
)

// LoadHMMER reads every profile from a HMMER3 text file.
func LoadHMMER(path string) ([]*Profile, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()
	return readHMMER(fh, path)
}

// ReadHMMER parses HMMER3 text profiles from r. Profiles are built in local
// mode; use WithMode to reconfigure.
func ReadHMMER(r io.Reader) ([]*Profile, error) { return readHMMER(r, "hmm") }

type hmmScanner struct {
	sc   *bufio.Scanner
	src  string
	line int
}

func (h *hmmScanner) next() ([]string, bool) {
	for h.sc.Scan() {
		h.line++
		f := strings.Fields(h.sc.Text())
		if len(f) == 0 {
			continue
		}
		return f, true
	}
	return nil, false
}

func (h *hmmScanner) errorf(format string, a ...any) error {
	return fmt.Errorf("%s:%d "+format, append([]any{h.src, h.line}, a...)...)
}

func readHMMER(r io.Reader, src string) ([]*Profile, error) {
	h := &hmmScanner{sc: bufio.NewScanner(r), src: src}
	h.sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var out []*Profile
	for {
		f, ok := h.next()
		if !ok {
			break
		}
		if !strings.HasPrefix(f[0], "HMMER3") {
			return nil, h.errorf("expected HMMER3 header, got %q", f[0])
		}
		p, err := readOne(h)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := h.sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: no profiles", src)
	}
	return out, nil
}

func readOne(h *hmmScanner) (*Profile, error) {
	var (
		par   Params
		m     int
		stats = DefaultStats
	)
	// header section
	for {
		f, ok := h.next()
		if !ok {
			return nil, h.errorf("unexpected end of file in header")
		}
		switch f[0] {
		case "NAME":
			par.Name = field(f, 1)
		case "ACC":
			par.Accession = field(f, 1)
		case "DESC":
			par.Description = strings.Join(f[1:], " ")
		case "LENG":
			n, err := strconv.Atoi(field(f, 1))
			if err != nil || n < 1 {
				return nil, h.errorf("bad LENG %q", field(f, 1))
			}
			m = n
		case "ALPH":
			if a := strings.ToLower(field(f, 1)); a != "amino" {
				return nil, h.errorf("unsupported alphabet %q", a)
			}
		case "STATS":
			if len(f) != 5 || f[1] != "LOCAL" {
				continue
			}
			a, err1 := strconv.ParseFloat(f[3], 64)
			b, err2 := strconv.ParseFloat(f[4], 64)
			if err1 != nil || err2 != nil {
				return nil, h.errorf("bad STATS line")
			}
			switch f[2] {
			case "VITERBI":
				stats.ViterbiMu, stats.ViterbiLambda = a, b
			case "FORWARD":
				stats.ForwardTau, stats.ForwardLambda = a, b
			}
		case "HMM":
			if m == 0 {
				return nil, h.errorf("HMM section before LENG")
			}
			// transition label line
			if _, ok := h.next(); !ok {
				return nil, h.errorf("unexpected end of file after HMM")
			}
			par.Stats = &stats
			if err := readNodes(h, m, &par); err != nil {
				return nil, err
			}
			p, err := New(par)
			if err != nil {
				return nil, h.errorf("%v", err)
			}
			return p, nil
		}
	}
}

func readNodes(h *hmmScanner, m int, par *Params) error {
	par.Match = make([][]float64, m)
	par.Insert = make([][]float64, m)
	par.Trans = make([][NTrans]float64, m+1)
	cons := make([]byte, m)
	haveCons := true

	f, ok := h.next()
	if !ok {
		return h.errorf("missing node 0")
	}
	if f[0] == "COMPO" {
		if f, ok = h.next(); !ok {
			return h.errorf("missing node 0")
		}
	}
	// node 0 insert emissions are not modelled (no I0 state)
	if len(f) != alphabet.K {
		return h.errorf("node 0 insert line has %d fields", len(f))
	}
	if f, ok = h.next(); !ok {
		return h.errorf("missing node 0 transitions")
	}
	if err := parseTrans(h, f, &par.Trans[0]); err != nil {
		return err
	}

	for k := 1; k <= m; k++ {
		if f, ok = h.next(); !ok {
			return h.errorf("missing node %d", k)
		}
		if len(f) < alphabet.K+1 || f[0] != strconv.Itoa(k) {
			return h.errorf("bad match line for node %d", k)
		}
		row, err := parseProbs(h, f[1:alphabet.K+1])
		if err != nil {
			return err
		}
		par.Match[k-1] = row
		// annotations: MAP CONS RF MM CS
		if len(f) >= alphabet.K+3 && f[alphabet.K+2] != "-" {
			cons[k-1] = strings.ToUpper(f[alphabet.K+2])[0]
		} else {
			haveCons = false
		}

		if f, ok = h.next(); !ok {
			return h.errorf("missing insert line for node %d", k)
		}
		if len(f) != alphabet.K {
			return h.errorf("insert line for node %d has %d fields", k, len(f))
		}
		if par.Insert[k-1], err = parseProbs(h, f); err != nil {
			return err
		}

		if f, ok = h.next(); !ok {
			return h.errorf("missing transitions for node %d", k)
		}
		if err := parseTrans(h, f, &par.Trans[k]); err != nil {
			return err
		}
	}
	if f, ok = h.next(); !ok || f[0] != "//" {
		return h.errorf("missing // terminator")
	}
	if haveCons {
		par.Consensus = cons
	}
	return nil
}

func parseTrans(h *hmmScanner, f []string, dst *[NTrans]float64) error {
	if len(f) != int(NTrans) {
		return h.errorf("transition line has %d fields, want %d", len(f), NTrans)
	}
	row, err := parseProbs(h, f)
	if err != nil {
		return err
	}
	copy(dst[:], row)
	return nil
}

// parseProbs converts negative natural-log values ("*" is zero probability).
func parseProbs(h *hmmScanner, f []string) ([]float64, error) {
	out := make([]float64, len(f))
	for i, s := range f {
		if s == "*" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, h.errorf("bad value %q", s)
		}
		out[i] = math.Exp(-v)
	}
	return out, nil
}

func field(f []string, i int) string {
	if i < len(f) {
		return f[i]
	}
	return ""
}
