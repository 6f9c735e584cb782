// internal/output/json_test.go
package output

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"cloudalign-core/align"
	"cloudalign/pkg/api"
)

func sample() *align.Alignment {
	return &align.Alignment{
		Profile: "demo", Target: "tgt1",
		ProfileStart: 2, ProfileEnd: 5, TargetStart: 9, TargetEnd: 11,
		ProfileLen: 10, TargetLen: 23,
		States:      "MMDM",
		ProfileLine: "KVLA",
		Midline:     "KV A",
		TargetLine:  "KV-A",
		Pairs:       []align.Pair{{Profile: 2, Target: 9}, {Profile: 3, Target: 10}, {Profile: 4, Target: -1}, {Profile: 5, Target: 11}},
		Method:      align.Posterior,
		Bits:        18.26,
		Bias:        0.5 * math.Ln2,
		EValue:      1.234e-6,
	}
}

func TestWriteJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteJSON(buf, []*align.Alignment{sample()}); err != nil {
		t.Fatalf("json write: %v", err)
	}
	var got []api.AlignmentV1
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil || len(got) != 1 {
		t.Fatalf("json decode failed: %v %v", err, got)
	}
	v := got[0]
	if v.Target != "tgt1" || v.Cigar != "2M1D1M" || v.Method != "posterior" {
		t.Fatalf("unexpected fields %+v", v)
	}
	if v.Pairs[2] != [2]int{4, -1} {
		t.Fatalf("gap column lost: %v", v.Pairs)
	}
	if math.Abs(v.Bias-0.5) > 1e-12 {
		t.Fatalf("bias should be reported in bits, got %f", v.Bias)
	}
	if !strings.Contains(buf.String(), "\n  {") {
		t.Fatalf("expected indented JSON:\n%s", buf.String())
	}
}

func TestWriteJSONEmptyIsArray(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteJSON(buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("want [], got %q", buf.String())
	}
}
