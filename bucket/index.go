package bucket

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidemark/tidemark/errs"
	"github.com/tidemark/tidemark/timerange"
)

// Index is a canonical string bucket identifier resolvable to a
// TimeRange. Two families exist:
//
//   - fixed:    "<span>-<position>", e.g. "1d-16314", "5m-4754344"
//   - calendar: "YYYY", "YYYY-MM", "YYYY-MM-DD", e.g. "2015-06"
//
// Fixed indexes are always UTC. Calendar indexes resolve in UTC by
// default; ParseLocalIndex resolves them in a caller-supplied location.
// The zero value is not a valid index.
type Index struct {
	str string
	r   timerange.TimeRange
}

func fixedIndex(s Span, pos int64) Index {
	beginMs := pos * s.Millis()

	return Index{
		str: fmt.Sprintf("%s-%d", s.spec, pos),
		r:   timerange.FromMillis(beginMs, beginMs+s.Millis()-1),
	}
}

// ParseIndex parses an index string, resolving calendar forms in UTC.
func ParseIndex(s string) (Index, error) {
	return ParseLocalIndex(s, time.UTC)
}

// ParseLocalIndex parses an index string, resolving calendar forms in
// loc. Fixed-form indexes are UTC-aligned regardless of loc.
func ParseLocalIndex(s string, loc *time.Location) (Index, error) {
	if idx, ok := parseFixed(s); ok {
		return idx, nil
	}
	if idx, ok := parseCalendar(s, loc); ok {
		return idx, nil
	}

	return Index{}, fmt.Errorf("%w: %q", errs.ErrInvalidIndex, s)
}

func parseFixed(s string) (Index, bool) {
	// The position may be negative, so split on the dash that follows
	// the span unit rather than the last dash.
	dash := strings.IndexByte(s, '-')
	if dash <= 0 || dash == len(s)-1 {
		return Index{}, false
	}

	span, err := ParseSpan(s[:dash])
	if err != nil {
		return Index{}, false
	}
	pos, err := strconv.ParseInt(s[dash+1:], 10, 64)
	if err != nil {
		return Index{}, false
	}

	return fixedIndex(span, pos), true
}

func parseCalendar(s string, loc *time.Location) (Index, bool) {
	var begin, end time.Time

	switch len(s) {
	case 4: // YYYY
		t, err := time.ParseInLocation("2006", s, loc)
		if err != nil {
			return Index{}, false
		}
		begin, end = t, t.AddDate(1, 0, 0)
	case 7: // YYYY-MM
		t, err := time.ParseInLocation("2006-01", s, loc)
		if err != nil {
			return Index{}, false
		}
		begin, end = t, t.AddDate(0, 1, 0)
	case 10: // YYYY-MM-DD
		t, err := time.ParseInLocation("2006-01-02", s, loc)
		if err != nil {
			return Index{}, false
		}
		begin, end = t, t.AddDate(0, 0, 1)
	default:
		return Index{}, false
	}

	return Index{
		str: s,
		r:   timerange.New(begin, end.Add(-time.Millisecond)),
	}, true
}

// DailyIndex returns the calendar day index covering t in t's location.
func DailyIndex(t time.Time) Index {
	idx, _ := parseCalendar(t.Format("2006-01-02"), t.Location())
	return idx
}

// MonthlyIndex returns the calendar month index covering t in t's
// location.
func MonthlyIndex(t time.Time) Index {
	idx, _ := parseCalendar(t.Format("2006-01"), t.Location())
	return idx
}

// YearlyIndex returns the calendar year index covering t in t's location.
func YearlyIndex(t time.Time) Index {
	idx, _ := parseCalendar(t.Format("2006"), t.Location())
	return idx
}

// String returns the canonical index string.
func (idx Index) String() string { return idx.str }

// Range returns the TimeRange the index covers. Range ends are inclusive
// and land one millisecond before the next bucket begins.
func (idx Index) Range() timerange.TimeRange { return idx.r }

// Begin returns the start instant of the covered range.
func (idx Index) Begin() time.Time { return idx.r.Begin() }

// End returns the end instant of the covered range.
func (idx Index) End() time.Time { return idx.r.End() }

// Equal reports whether two indexes denote the same bucket.
func (idx Index) Equal(other Index) bool { return idx.str == other.str }

// Less orders indexes by the begin of their underlying range, then by
// string for determinism between co-anchored buckets.
func (idx Index) Less(other Index) bool {
	if !idx.r.Begin().Equal(other.r.Begin()) {
		return idx.r.Begin().Before(other.r.Begin())
	}

	return idx.str < other.str
}
