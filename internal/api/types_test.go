package api

import (
	"encoding/json"
	"testing"
)

func TestFlexFloat_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input   string
		want    FlexFloat
		wantErr bool
	}{
		{`150.5`, 150.5, false},
		{`"150.5"`, 150.5, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`"abc"`, 0, true},
		{`true`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var got FlexFloat
			err := json.Unmarshal([]byte(tt.input), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPoultryGroups_Total(t *testing.T) {
	g := PoultryGroups{Male: []Poultry{{ID: "1"}}, Female: []Poultry{{ID: "2"}, {ID: "3"}}}
	if g.Total() != 3 {
		t.Errorf("Total() = %d, want 3", g.Total())
	}
	if emptyPoultryGroups().Total() != 0 {
		t.Error("empty groups should have no birds")
	}
}
