package chapters

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	reSingle = regexp.MustCompile(`^\d+$`)
	reRange  = regexp.MustCompile(`^(\d+)-(\d+)$`)
)

type span struct {
	lo, hi int
}

func parseSpans(expr string) []span {
	var out []span

	for bit := range strings.SplitSeq(expr, ",") {
		bit = strings.TrimSpace(bit)

		switch {
		case reSingle.MatchString(bit):
			n := atoi(bit)
			out = append(out, span{n, n})
		case reRange.MatchString(bit):
			m := reRange.FindStringSubmatch(bit)
			lo, hi := atoi(m[1]), atoi(m[2])
			if hi < lo {
				continue
			}
			out = append(out, span{lo, hi})
		}
	}

	return out
}

// atoi parses a run of digits; values too large for int become MaxInt so
// they are rejected as out of range.
func atoi(digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return math.MaxInt
	}
	return n
}

// ParseSelection turns "0,1,5-8" into the sorted set of indices it names,
// for a list of count chapters. Pieces that are neither N nor N-M are
// ignored and a reversed range selects nothing. An index at or past count
// is an error, reported before any range is expanded.
func ParseSelection(expr string, count int) ([]int, error) {
	spans := parseSpans(expr)
	for _, s := range spans {
		if s.hi >= count {
			return nil, fmt.Errorf("chapter index %d out of range (0-%d)", s.hi, count-1)
		}
	}

	set := map[int]bool{}
	for _, s := range spans {
		for i := s.lo; i <= s.hi; i++ {
			set[i] = true
		}
	}

	out := make([]int, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Ints(out)

	return out, nil
}

// Select returns the union of every expression, in index order.
func Select(all []Chapter, exprs []string) ([]Chapter, error) {
	set := map[int]bool{}
	for _, expr := range exprs {
		indices, err := ParseSelection(expr, len(all))
		if err != nil {
			return nil, err
		}
		for _, idx := range indices {
			set[idx] = true
		}
	}

	if len(set) == 0 {
		return nil, fmt.Errorf("no chapters selected by %q", strings.Join(exprs, " "))
	}

	indices := make([]int, 0, len(set))
	for idx := range set {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	out := make([]Chapter, 0, len(indices))
	for _, idx := range indices {
		out = append(out, all[idx])
	}

	return out, nil
}
