package model

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

type valueKind int

const (
	kindNull valueKind = iota
	kindInt
	kindFloat
	kindString
	kindTime
)

// Value is one captured cell inside an information bag. Exactly one variant
// is set. A zero Value is the null variant and marshals as JSON null, so a
// column that was present but empty stays distinguishable from a column
// that was absent.
type Value struct {
	kind valueKind
	i    int64
	f    float64
	s    string
	t    time.Time
}

func Null() Value            { return Value{} }
func Int(i int64) Value      { return Value{kind: kindInt, i: i} }
func Float(f float64) Value  { return Value{kind: kindFloat, f: f} }
func String(s string) Value  { return Value{kind: kindString, s: s} }
func Time(t time.Time) Value { return Value{kind: kindTime, t: t} }

func (v Value) IsNull() bool { return v.kind == kindNull }

// StringValue returns the string variant, or "" when the value holds
// anything else.
func (v Value) StringValue() string {
	if v.kind == kindString {
		return v.s
	}
	return ""
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindNull:
		return []byte("null"), nil
	case kindInt:
		return json.Marshal(v.i)
	case kindFloat:
		return json.Marshal(v.f)
	case kindString:
		return json.Marshal(v.s)
	case kindTime:
		return json.Marshal(v.t.Format(time.RFC3339))
	}
	return nil, fmt.Errorf("unknown value kind %d", v.kind)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Null()
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			*v = Int(int64(x))
		} else {
			*v = Float(x)
		}
	case string:
		*v = String(x)
	case bool:
		*v = String(fmt.Sprintf("%t", x))
	default:
		return fmt.Errorf("unsupported bag value %T", raw)
	}
	return nil
}

// InfoBag is an open map of source column name to captured value.
type InfoBag map[string]Value
