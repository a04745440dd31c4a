package browser

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is the sort order.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Toggle returns the opposite direction.
func (d Direction) Toggle() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// Filter returns the records whose value at column, as lowercase text,
// contains the lowercase query. An empty query returns every record. The
// input slice is never modified.
func Filter(records []Record, column, query string) []Record {
	out := make([]Record, 0, len(records))
	if query == "" {
		return append(out, records...)
	}
	needle := strings.ToLower(query)
	for _, rec := range records {
		text, ok := TextOf(rec[column])
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(text), needle) {
			out = append(out, rec)
		}
	}
	return out
}

// Sort returns records ordered by column. A column without a name leaves the
// order unchanged. Ties keep their input order in both directions, so a
// descending sort is the exact reverse of the ascending one whenever keys are
// distinct.
func Sort(records []Record, column Column, dir Direction) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	if column.Name == "" || column.Derived() {
		return out
	}

	kind := column.Kind
	if kind == Auto {
		kind = detectKind(out, column.Name)
	}
	keys := make([]sortKey, len(out))
	for i, rec := range out {
		keys[i] = keyFor(rec[column.Name], kind)
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}

	col := newCollator()
	sort.SliceStable(idx, func(a, b int) bool {
		c := compareKeys(col, keys[idx[a]], keys[idx[b]])
		if dir == Descending {
			return c > 0
		}
		return c < 0
	})

	sorted := make([]Record, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}

// detectKind resolves Auto: numeric when every present value is stored as a
// number, boolean when every present value is a bool, text otherwise.
func detectKind(records []Record, field string) Kind {
	allNumbers, allBools, seen := true, true, false
	for _, rec := range records {
		v, ok := rec[field]
		if !ok || v == nil {
			continue
		}
		seen = true
		if !isNumeric(v) {
			allNumbers = false
		}
		if _, isBool := v.(bool); !isBool {
			allBools = false
		}
	}
	switch {
	case !seen:
		return Text
	case allNumbers:
		return Number
	case allBools:
		return Bool
	default:
		return Text
	}
}

// sortKey is a comparable projection of one value. Values that fit the
// column kind have class 0; anything else falls back to text in class 1, so
// the ordering stays total over mixed data.
type sortKey struct {
	class int
	num   float64
	at    time.Time
	text  string
}

func keyFor(v any, kind Kind) sortKey {
	switch kind {
	case Number:
		if f, ok := NumberOf(v); ok {
			return sortKey{num: f}
		}
	case Date:
		if t, ok := DateOf(v); ok {
			return sortKey{at: t}
		}
	case Bool:
		if b, ok := BoolOf(v); ok {
			if b {
				return sortKey{num: 1}
			}
			return sortKey{}
		}
	default:
		// Missing text values compare as the empty string.
		s, _ := TextOf(v)
		return sortKey{text: strings.ToLower(s)}
	}
	s, _ := TextOf(v)
	return sortKey{class: 1, text: strings.ToLower(s)}
}

func newCollator() *collate.Collator {
	return collate.New(language.Und)
}

func compareKeys(col *collate.Collator, a, b sortKey) int {
	if a.class != b.class {
		if a.class < b.class {
			return -1
		}
		return 1
	}
	if a.text != "" || b.text != "" || a.class == 1 {
		if c := col.CompareString(a.text, b.text); c != 0 {
			return c
		}
		return strings.Compare(a.text, b.text)
	}
	if c := a.at.Compare(b.at); c != 0 {
		return c
	}
	switch {
	case a.num < b.num:
		return -1
	case a.num > b.num:
		return 1
	default:
		return 0
	}
}

// Age returns the number of whole years between birth and now, counting a
// year only once the birthday has been reached.
func Age(birth, now time.Time) int {
	if birth.IsZero() || now.Before(birth) {
		return 0
	}
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}

// AgeColumn is a derived column showing the age computed from the date in
// field. Records without a parseable date render as empty.
func AgeColumn(name, label, field string) Column {
	return Column{
		Name:  name,
		Label: label,
		Kind:  Number,
		Derive: func(rec Record, now time.Time) any {
			birth, ok := DateOf(rec[field])
			if !ok {
				return nil
			}
			return Age(birth, now)
		},
	}
}

// BeforeToday is a validator for dates that must lie strictly before the
// current day, such as a date of birth.
func BeforeToday(value any, now time.Time) string {
	s, _ := TextOf(value)
	if s == "" {
		return "Required"
	}
	d, ok := DateOf(value)
	if !ok {
		return "Must be a date (YYYY-MM-DD)"
	}
	// Compare calendar days in the clock's location.
	y, m, day := now.Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, now.Location())
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
	if !d.Before(today) {
		return "Must be before today"
	}
	return ""
}

// Required rejects empty values.
func Required(value any, _ time.Time) string {
	s, ok := TextOf(value)
	if !ok || strings.TrimSpace(s) == "" {
		return "Required"
	}
	return ""
}
