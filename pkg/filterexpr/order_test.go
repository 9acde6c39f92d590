package filterexpr

import (
	"strings"
	"testing"
)

func TestParseOrderBy(t *testing.T) {
	tests := []struct {
		raw  string
		want orderParams
	}{
		{"", orderParams{PrimaryKey: "created_at", PrimaryDesc: true, SecondaryKey: "id"}},
		{"english", orderParams{PrimaryKey: "english", SecondaryKey: "id"}},
		{"Level DESC, english", orderParams{PrimaryKey: "level", PrimaryDesc: true, SecondaryKey: "english"}},
		{"id desc", orderParams{PrimaryKey: "id", PrimaryDesc: true, SecondaryKey: "created_at"}},
	}

	for _, tc := range tests {
		got, err := parseOrderBy(tc.raw, cardsSchema.Order)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %+v, got %+v", tc.raw, tc.want, got)
		}
	}
}

func TestParseOrderBy_Errors(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"emoji", "cannot be used for ordering"},
		{"english sideways", "invalid direction"},
		{"english asc extra", "invalid order segment"},
		{"english, english desc", "duplicate order key"},
		{"english, level, id", "at most two keys"},
	}

	for _, tc := range tests {
		_, err := parseOrderBy(tc.raw, cardsSchema.Order)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%q: expected error containing %q, got %v", tc.raw, tc.want, err)
		}
	}

	if _, err := parseOrderBy("", OrderSchema{FallbackKey: "id"}); err == nil {
		t.Fatalf("expected error for missing default primary")
	}
}
