package filterexpr

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"
)

type listQuery struct {
	Filter  string
	OrderBy string
}

func (q listQuery) GetFilter() string  { return q.Filter }
func (q listQuery) GetOrderBy() string { return q.OrderBy }

type listCardsParams struct {
	Category      *string
	Categories    []string
	EnglishPrefix *string
	LevelMin      *int
	LevelMax      *int
	LevelBelow    *int
	Due           *bool
	ReviewBefore  *time.Time
	PrimaryKey    string
	PrimaryDesc   bool
	SecondaryKey  string
	SecondaryDesc bool
}

var cardsSchema = ResourceSchema{
	Filter: map[string]FilterField{
		"category": {
			Kind: KindString,
			Ops:  map[Op]string{OpEQ: "Category", OpIN: "Categories"},
		},
		"english": {
			Kind: KindString,
			Ops:  map[Op]string{OpSW: "EnglishPrefix"},
		},
		"level": {
			Kind: KindNumber,
			Ops:  map[Op]string{OpGTE: "LevelMin", OpLTE: "LevelMax", OpLT: "LevelBelow"},
		},
		"due": {
			Kind: KindBool,
			Ops:  map[Op]string{OpEQ: "Due"},
		},
		"next_review": {
			Kind: KindTimestamp,
			Ops:  map[Op]string{OpLTE: "ReviewBefore"},
		},
	},
	Order: OrderSchema{
		DefaultPrimary:     "created_at",
		DefaultPrimaryDesc: true,
		FallbackKey:        "id",
		Fields: map[string]OrderField{
			"created_at": {Expr: "created_at"},
			"english":    {Expr: "english"},
			"level":      {Expr: "level"},
			"id":         {Expr: "id"},
		},
	},
}

func TestBind_ListCards(t *testing.T) {
	var params listCardsParams
	timestamp := "2024-01-05T00:00:00Z"
	filter := fmt.Sprintf("category == 'Travel' && level <= 3 && english.startsWith('a') && next_review <= timestamp('%s')", timestamp)

	if err := Bind(listQuery{Filter: filter}, &params, cardsSchema); err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}

	if params.Category == nil || *params.Category != "Travel" {
		t.Fatalf("expected Category to be 'Travel', got %v", params.Category)
	}
	if params.LevelMax == nil || *params.LevelMax != 3 {
		t.Fatalf("expected LevelMax to be 3, got %v", params.LevelMax)
	}
	if params.LevelMin != nil {
		t.Fatalf("expected LevelMin to be nil, got %v", params.LevelMin)
	}
	if params.EnglishPrefix == nil || *params.EnglishPrefix != "a" {
		t.Fatalf("expected EnglishPrefix to be 'a', got %v", params.EnglishPrefix)
	}

	wantTime, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if params.ReviewBefore == nil || !params.ReviewBefore.Equal(wantTime) {
		t.Fatalf("expected ReviewBefore %v, got %v", wantTime, params.ReviewBefore)
	}

	if params.PrimaryKey != "created_at" || !params.PrimaryDesc || params.SecondaryKey != "id" || params.SecondaryDesc {
		t.Fatalf("expected default ordering, got %+v", params)
	}
}

func TestBind_LevelBounds(t *testing.T) {
	var params listCardsParams
	if err := Bind(listQuery{Filter: "level >= 2 && level < 5"}, &params, cardsSchema); err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}
	if params.LevelMin == nil || *params.LevelMin != 2 {
		t.Fatalf("expected LevelMin 2, got %v", params.LevelMin)
	}
	if params.LevelBelow == nil || *params.LevelBelow != 5 {
		t.Fatalf("expected LevelBelow 5, got %v", params.LevelBelow)
	}

	if err := Bind(listQuery{Filter: "level >= 2.5"}, &params, cardsSchema); err == nil {
		t.Fatalf("expected error for fractional level")
	}
}

func TestBind_BoolField(t *testing.T) {
	var params listCardsParams
	if err := Bind(listQuery{Filter: "due"}, &params, cardsSchema); err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}
	if params.Due == nil || !*params.Due {
		t.Fatalf("expected Due true, got %v", params.Due)
	}

	params = listCardsParams{}
	if err := Bind(listQuery{Filter: "due == false && level >= 1"}, &params, cardsSchema); err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}
	if params.Due == nil || *params.Due {
		t.Fatalf("expected Due false, got %v", params.Due)
	}
}

func TestBind_InOperator(t *testing.T) {
	var params listCardsParams
	if err := Bind(listQuery{Filter: "category in ['Food', 'Verbs']"}, &params, cardsSchema); err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}

	want := []string{"Food", "Verbs"}
	if !reflect.DeepEqual(params.Categories, want) {
		t.Fatalf("expected Categories %v, got %v", want, params.Categories)
	}
}

func TestBind_CustomSetter(t *testing.T) {
	type upperParams struct {
		Category      string
		PrimaryKey    string
		PrimaryDesc   bool
		SecondaryKey  string
		SecondaryDesc bool
	}

	schema := cardsSchema
	schema.Filter = map[string]FilterField{
		"category": {
			Kind: KindString,
			Ops:  map[Op]string{OpEQ: "Category"},
			Setter: func(field reflect.Value, v any) error {
				text, ok := v.(string)
				if !ok {
					return fmt.Errorf("expected string, got %T", v)
				}
				field.SetString(strings.ToUpper(text))
				return nil
			},
		},
	}

	var params upperParams
	if err := Bind(listQuery{Filter: "category == 'travel'"}, &params, schema); err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}
	if params.Category != "TRAVEL" {
		t.Fatalf("expected setter output, got %q", params.Category)
	}
}

func TestBind_Errors(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		want   string
	}{
		{"unsupported field", "emoji == 'x'", "not allowed"},
		{"unsupported operator", "category <= 'A'", "operator"},
		{"bad literal type", "category == 1", "expected string"},
		{"bad logical op", "category == 'A' || level <= 2", "only AND"},
		{"non literal", "level <= foo", "right-hand side"},
		{"bare non-bool identifier", "category", "not a boolean field"},
		{"bool ordering", "due >= true", "operator"},
		{"empty list", "category in []", "must not be empty"},
		{"list wrong type", "category in [1]", "list literal elements must be strings"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var params listCardsParams
			err := Bind(listQuery{Filter: tc.filter}, &params, cardsSchema)
			if err == nil {
				t.Fatalf("expected error for %q", tc.filter)
			}
			if !strings.Contains(strings.ToLower(err.Error()), strings.ToLower(tc.want)) {
				t.Fatalf("expected error to contain %q, got %v", tc.want, err)
			}
		})
	}
}

func TestBind_InvalidParams(t *testing.T) {
	var params *listCardsParams
	if err := Bind(listQuery{Filter: "category == 'Travel'"}, params, cardsSchema); err == nil {
		t.Fatalf("expected error when params is nil pointer")
	}
}
