package optional

import (
	"encoding/json"
	"testing"
)

type patch struct {
	Score Value[float64] `json:"score"`
	Name  Value[string]  `json:"name"`
}

func TestUnmarshalDistinguishesAbsentAndNull(t *testing.T) {
	var p patch
	if err := json.Unmarshal([]byte(`{"score": null}`), &p); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if !p.Score.Set || !p.Score.Null {
		t.Fatalf("expected score set to null, got %+v", p.Score)
	}
	if p.Name.Set {
		t.Fatalf("expected name absent, got %+v", p.Name)
	}

	p = patch{}
	if err := json.Unmarshal([]byte(`{"score": 0}`), &p); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if !p.Score.Set || p.Score.Null || p.Score.Value != 0 {
		t.Fatalf("expected explicit zero, got %+v", p.Score)
	}
}

func TestApply(t *testing.T) {
	current := 3.0
	tests := []struct {
		name  string
		value Value[float64]
		want  *float64
	}{
		{name: "absent keeps current", value: Value[float64]{}, want: &current},
		{name: "null clears", value: Null[float64](), want: nil},
		{name: "value replaces", value: Of(4.5), want: func() *float64 { v := 4.5; return &v }()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.value.Apply(&current)
			if (got == nil) != (tc.want == nil) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			if got != nil && *got != *tc.want {
				t.Fatalf("expected %v, got %v", *tc.want, *got)
			}
		})
	}
}

func TestUnmarshalRejectsWrongType(t *testing.T) {
	var p patch
	if err := json.Unmarshal([]byte(`{"score": "high"}`), &p); err == nil {
		t.Fatal("expected type error")
	}
}
