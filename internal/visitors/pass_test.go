package visitors

import (
	"testing"

	"cloudalign-core/align"
)

func TestPassThrough(t *testing.T) {
	a := &align.Alignment{Target: "t"}
	keep, out, err := PassThrough{}.Visit(a)
	if !keep || out != a || err != nil {
		t.Fatalf("pass-through changed the alignment")
	}
}

func TestLimitPerPair(t *testing.T) {
	l := &Limit{N: 1}
	first := &align.Alignment{Profile: "p", Target: "t", Bits: 30}
	second := &align.Alignment{Profile: "p", Target: "t", Bits: 10}
	other := &align.Alignment{Profile: "p", Target: "u"}
	if keep, _, _ := l.Visit(first); !keep {
		t.Fatalf("first hit dropped")
	}
	if keep, _, _ := l.Visit(second); keep {
		t.Fatalf("second hit of the pair kept")
	}
	if keep, _, _ := l.Visit(other); !keep {
		t.Fatalf("other pair dropped")
	}
	if keep, _, _ := (&Limit{}).Visit(second); !keep {
		t.Fatalf("zero limit should keep everything")
	}
}
