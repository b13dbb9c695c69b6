package layout

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/graphview/pkg/errors"
)

func TestTOMLRoundTrip(t *testing.T) {
	s := DefaultState(KindForceDirectedExtras)
	s.Force.DT = 0.1
	s.Force.StepCount = 7
	s.Extras = append(s.Extras, DefaultExtra(ExtraSeparation))

	data, err := EncodeTOML(s)
	if err != nil {
		t.Fatalf("EncodeTOML() error = %v", err)
	}
	got, err := DecodeTOML(data)
	if err != nil {
		t.Fatalf("DecodeTOML() error = %v\n%s", err, data)
	}
	if *got.Force != *s.Force {
		t.Errorf("Force = %+v, want %+v", *got.Force, *s.Force)
	}
	if len(got.Extras) != 2 || got.Extras[0] != s.Extras[0] || got.Extras[1] != s.Extras[1] {
		t.Errorf("Extras = %+v, want %+v", got.Extras, s.Extras)
	}
}

func TestDecodeTOMLPartial(t *testing.T) {
	doc := `
kind = "hierarchical"

[hierarchical]
row_dist = 80.0
orientation = "left_right"
`
	s, err := DecodeTOML([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeTOML() error = %v", err)
	}
	h := s.Hierarchical
	if h.RowDist != 80 || h.Orientation != LeftRight {
		t.Errorf("decoded %+v", *h)
	}
	if h.ColDist != DefaultColDist || h.Ranking != RankTree {
		t.Errorf("defaults not kept: %+v", *h)
	}
	if s.Force != nil || s.Random != nil {
		t.Error("sections of other variants should be nil")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{"malformed", `kind = `, errors.ErrCodeInvalidInput},
		{"unknown kind", `kind = "spiral"`, errors.ErrCodeConfiguration},
		{"bad parameter", "kind = \"force_directed\"\n[force]\ndt = -1.0\n", errors.ErrCodeConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTOML([]byte(tt.doc))
			if !errors.Is(err, tt.code) {
				t.Errorf("DecodeTOML() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	for _, kind := range Kinds {
		t.Run(string(kind), func(t *testing.T) {
			data, err := EncodeJSON(DefaultState(kind))
			if err != nil {
				t.Fatalf("EncodeJSON() error = %v", err)
			}
			got, err := DecodeJSON(data)
			if err != nil {
				t.Fatalf("DecodeJSON() error = %v", err)
			}
			if got.Kind != kind {
				t.Errorf("Kind = %q, want %q", got.Kind, kind)
			}
			if _, err := New(got); err != nil {
				t.Errorf("New(decoded) error = %v", err)
			}
		})
	}
}

func TestJSONEmptyExtrasSurvive(t *testing.T) {
	l, _ := NewForceDirectedExtras()
	data, err := EncodeJSON(l.State())
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Extras) != 0 {
		t.Errorf("Extras = %+v, want none", got.Extras)
	}
}

func TestStateEmbedsInJSON(t *testing.T) {
	var doc struct {
		Layout State `json:"layout"`
	}
	body := `{"layout": {"kind": "circular", "circular": {"sort": "reverse"}}}`
	if err := json.NewDecoder(strings.NewReader(body)).Decode(&doc); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	c := doc.Layout.Circular
	if c == nil || c.Sort != SortReverse || c.BaseRadius != DefaultBaseRadius {
		t.Errorf("Circular = %+v", c)
	}
}
