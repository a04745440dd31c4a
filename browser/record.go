package browser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Record is one row of remote data: field name to value. Numbers decoded from
// JSON are kept as json.Number so identifiers survive unchanged.
type Record map[string]any

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Kind tells the engine how to compare and coerce a column's values.
type Kind int

const (
	// Auto compares numerically when every present value is a number and as
	// text otherwise.
	Auto Kind = iota
	Text
	Number
	Date
	Bool
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Number:
		return "number"
	case Date:
		return "date"
	case Bool:
		return "bool"
	default:
		return "auto"
	}
}

// Column describes one field of a Schema.
type Column struct {
	Name       string
	Label      string
	Kind       Kind
	Searchable bool
	Editable   bool

	// Validate checks an edited value. It returns a short message for the
	// operator, or "" when the value is acceptable.
	Validate func(value any, now time.Time) string

	// Derive computes a render-only value. Derived columns are never stored,
	// searched or sorted.
	Derive func(rec Record, now time.Time) any
}

// Derived reports whether the column is computed at render time.
func (c Column) Derived() bool { return c.Derive != nil }

// Title returns Label, falling back to Name.
func (c Column) Title() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Name
}

// Schema describes the records of one screen.
type Schema struct {
	// Name is the plural noun used in messages ("files").
	Name string
	// Noun is the singular noun used in messages ("file").
	Noun string

	IDField string
	// VersionField, when set, names a field the server bumps on every
	// update. Saves based on a stale version are rejected locally.
	VersionField  string
	Columns       []Column
	DefaultSearch string
}

// Column returns the column called name.
func (s Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// SearchColumns returns the columns that may be used for filtering.
func (s Schema) SearchColumns() []Column {
	var out []Column
	for _, c := range s.Columns {
		if c.Searchable && !c.Derived() {
			out = append(out, c)
		}
	}
	return out
}

// Validate checks the schema for internal consistency.
func (s Schema) Validate() error {
	if s.IDField == "" {
		return errors.New("schema: IDField is required")
	}
	seen := make(map[string]bool, len(s.Columns))
	for _, c := range s.Columns {
		if c.Name == "" {
			return errors.New("schema: column without name")
		}
		if seen[c.Name] {
			return fmt.Errorf("schema: duplicate column %q", c.Name)
		}
		seen[c.Name] = true
		if c.Derived() && (c.Searchable || c.Editable) {
			return fmt.Errorf("schema: derived column %q cannot be searchable or editable", c.Name)
		}
	}
	if s.DefaultSearch != "" {
		c, ok := s.Column(s.DefaultSearch)
		if !ok || !c.Searchable {
			return fmt.Errorf("schema: default search column %q is not searchable", s.DefaultSearch)
		}
	}
	return nil
}

// RecordOf converts a JSON-encodable value (usually a wire struct) to a Record.
func RecordOf(v any) (Record, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return DecodeRecord(b)
}

// DecodeRecord parses one JSON object, keeping numbers as json.Number.
func DecodeRecord(raw []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.New("record is null")
	}
	return rec, nil
}

// Decode fills v (a pointer to a wire struct) from rec.
func Decode(rec Record, v any) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// TextOf renders a value the way filtering sees it. Missing values report
// false.
func TextOf(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case bool:
		return strconv.FormatBool(x), true
	case time.Time:
		return x.Format(time.RFC3339), true
	default:
		return fmt.Sprint(x), true
	}
}

// Format renders a value for display: dates as YYYY-MM-DD, booleans as
// yes/no and everything else the way TextOf does.
func Format(v any, kind Kind) string {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		return x.Format(time.DateOnly)
	case bool:
		if x {
			return "yes"
		}
		return "no"
	}
	if kind == Bool {
		if b, ok := BoolOf(v); ok {
			return Format(b, kind)
		}
	}
	s, _ := TextOf(v)
	return s
}

// NumberOf reads a numeric value. Numeric strings are accepted.
func NumberOf(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case float64:
		return x, !math.IsNaN(x)
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil && !math.IsNaN(f)
	default:
		return 0, false
	}
}

// isNumeric reports whether v is stored as a number (not a numeric string).
func isNumeric(v any) bool {
	switch v.(type) {
	case json.Number, float64, float32, int, int32, int64, uint, uint32, uint64:
		return true
	default:
		return false
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// DateOf parses a date-like value: an ISO 8601 string, a plain date or a
// number of epoch milliseconds.
func DateOf(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		if !isNumeric(v) {
			return time.Time{}, false
		}
		ms, ok := NumberOf(v)
		if !ok {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(ms)).UTC(), true
	}
}

// BoolOf reads a boolean, accepting "true"/"false" strings.
func BoolOf(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		return b, err == nil
	default:
		return false, false
	}
}

// IDOf returns the identifier of rec under field, as text.
func IDOf(rec Record, field string) string {
	s, _ := TextOf(rec[field])
	return s
}

// Coerce converts operator input to the column's kind. It returns a message
// when the input cannot be represented.
func Coerce(c Column, value any) (any, string) {
	s, isString := value.(string)
	if !isString {
		return value, ""
	}
	switch c.Kind {
	case Number:
		if strings.TrimSpace(s) == "" {
			return nil, ""
		}
		if _, ok := NumberOf(s); !ok {
			return value, "Must be a number"
		}
		return json.Number(strings.TrimSpace(s)), ""
	case Bool:
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "active", "yes", "y":
			return true, ""
		case "inactive", "no", "n":
			return false, ""
		}
		b, ok := BoolOf(s)
		if !ok {
			return value, "Must be true or false"
		}
		return b, ""
	case Date:
		if strings.TrimSpace(s) == "" {
			return "", ""
		}
		if _, ok := DateOf(s); !ok {
			return value, "Must be a date (YYYY-MM-DD)"
		}
		return strings.TrimSpace(s), ""
	default:
		return value, ""
	}
}
