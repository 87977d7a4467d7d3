package ai

import (
	"strings"
	"testing"

	"github.com/swapmarket/swapmarket-backend/internal/model"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		want    []string
	}{
		{"plain", `{"productIds":["1","2"]}`, false, []string{"1", "2"}},
		{"fenced", "```json\n{\"productIds\":[\"3\"]}\n```", false, []string{"3"}},
		{"bare fence", "```\n{\"productIds\":[]}\n```", false, nil},
		{"garbage", "sorry, I cannot do that", true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out struct {
				ProductIDs []string `json:"productIds"`
			}
			err := decodeJSON(tt.input, &out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(out.ProductIDs) != len(tt.want) {
				t.Fatalf("got=%v want=%v", out.ProductIDs, tt.want)
			}
			for i := range tt.want {
				if out.ProductIDs[i] != tt.want[i] {
					t.Fatalf("got=%v want=%v", out.ProductIDs, tt.want)
				}
			}
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		input string
		want  uint64
		ok    bool
	}{
		{"7", 7, true},
		{" 12 ", 12, true},
		{"id=3", 3, true},
		{"abc", 0, false},
		{"-1", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseID(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("parseID(%q)=%v,%v want %v,%v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCondenseCatalogTruncatesDescriptions(t *testing.T) {
	long := strings.Repeat("x", 500)
	out := condenseCatalog([]model.Product{
		{ID: 4, Name: "Lamp", Category: "Home", Price: 20, Description: long},
	})
	if len(out) > 250 {
		t.Fatalf("line not truncated, len=%d", len(out))
	}
	if !strings.Contains(out, "id=4 | Lamp | Home") {
		t.Fatalf("unexpected line: %q", out)
	}
}
