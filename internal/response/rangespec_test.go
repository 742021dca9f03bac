package response

import (
	"errors"
	"testing"

	"github.com/yourname/static_lite/internal/models"
)

func TestParseRange(t *testing.T) {
	cases := []struct {
		header  string
		size    int64
		outcome RangeOutcome
		want    RangeSpec
	}{
		{"", 5, RangeFull, RangeSpec{}},
		{"bytes=2-3", 5, RangePartial, RangeSpec{2, 3}},
		{"bytes=0-", 5, RangePartial, RangeSpec{0, 4}},
		{"bytes=1-100", 5, RangePartial, RangeSpec{1, 4}},
		{"bytes=-2", 5, RangePartial, RangeSpec{3, 4}},
		{"bytes=-10", 5, RangePartial, RangeSpec{0, 4}},
		{"bytes=4-4", 5, RangePartial, RangeSpec{4, 4}},
		{" bytes = 2 - 3 ", 5, RangePartial, RangeSpec{2, 3}},
		{"BYTES=0-0", 5, RangePartial, RangeSpec{0, 0}},
		{"bytes=0-99999999999999999999", 5, RangePartial, RangeSpec{0, 4}},
		{"bytes=10-20", 5, RangeUnsatisfiable, RangeSpec{}},
		{"bytes=5-", 5, RangeUnsatisfiable, RangeSpec{}},
		{"bytes=-0", 5, RangeUnsatisfiable, RangeSpec{}},
		{"bytes=0-", 0, RangeUnsatisfiable, RangeSpec{}},
		{"bytes=-1", 0, RangeUnsatisfiable, RangeSpec{}},
		{"bytes=99999999999999999999-", 5, RangeUnsatisfiable, RangeSpec{}},
		{"bytes=0-1,3-4", 5, RangeFull, RangeSpec{}},
		{"items=0-1", 5, RangeFull, RangeSpec{}},
	}

	for _, tc := range cases {
		spec, outcome, err := ParseRange(tc.header, tc.size)
		if err != nil {
			t.Fatalf("ParseRange(%q, %d): unexpected error %v", tc.header, tc.size, err)
		}
		if outcome != tc.outcome {
			t.Fatalf("ParseRange(%q, %d) outcome = %d, want %d", tc.header, tc.size, outcome, tc.outcome)
		}
		if outcome == RangePartial && spec != tc.want {
			t.Fatalf("ParseRange(%q, %d) = %+v, want %+v", tc.header, tc.size, spec, tc.want)
		}
	}
}

func TestParseRange_Malformed(t *testing.T) {
	for _, header := range []string{
		"bytes",
		"bytes=",
		"bytes=abc",
		"bytes=-",
		"bytes=3-2",
		"bytes=+1-2",
		"bytes=-+2",
		"bytes=1-x",
		"bytes=0x1-",
	} {
		if _, _, err := ParseRange(header, 5); !errors.Is(err, models.ErrMalformed) {
			t.Fatalf("ParseRange(%q) err = %v, want malformed", header, err)
		}
	}
}

func TestRangeSpecLength(t *testing.T) {
	if got := (RangeSpec{Start: 2, End: 3}).Length(); got != 2 {
		t.Fatalf("length = %d", got)
	}
}
