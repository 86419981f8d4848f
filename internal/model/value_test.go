package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestValueMarshal(t *testing.T) {
	bag := InfoBag{
		"empty":  Null(),
		"count":  Int(7),
		"amount": Float(12.5),
		"name":   String("Servicio Medicina"),
		"when":   Time(time.Date(2025, 9, 24, 13, 0, 0, 0, time.UTC)),
	}
	data, err := json.Marshal(bag)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v, present := raw["empty"]; !present || v != nil {
		t.Errorf("null value must serialize as an explicit JSON null, got %v (present=%v)", v, present)
	}
	if raw["count"] != float64(7) {
		t.Errorf("count = %v", raw["count"])
	}
	if raw["amount"] != 12.5 {
		t.Errorf("amount = %v", raw["amount"])
	}
	if raw["name"] != "Servicio Medicina" {
		t.Errorf("name = %v", raw["name"])
	}
	if raw["when"] != "2025-09-24T13:00:00Z" {
		t.Errorf("when = %v", raw["when"])
	}
}

func TestValueRoundTrip(t *testing.T) {
	in := InfoBag{"n": Int(3), "s": String("x"), "nil": Null()}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out InfoBag
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out["nil"].IsNull() {
		t.Error("null did not survive round trip")
	}
	if out["s"].StringValue() != "x" {
		t.Errorf("string did not survive round trip: %v", out["s"])
	}
	if out["n"].IsNull() {
		t.Error("int decoded as null")
	}
}
