package repository

import "github.com/eslsoft/vocquiz/pkg/filterexpr"

var listWordsSchema = filterexpr.ResourceSchema{
	Filter: map[string]filterexpr.FilterField{
		"category": {
			Kind: filterexpr.KindString,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpEQ: "Category",
				filterexpr.OpIN: "Categories",
			},
		},
		"folder": {
			Kind: filterexpr.KindString,
			Ops:  map[filterexpr.Op]string{filterexpr.OpEQ: "Folder"},
		},
		"english": {
			Kind: filterexpr.KindString,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpEQ: "English",
				filterexpr.OpSW: "EnglishPrefix",
				filterexpr.OpIN: "Words",
			},
		},
		"turkish": {
			Kind: filterexpr.KindString,
			Ops:  map[filterexpr.Op]string{filterexpr.OpSW: "TurkishPrefix"},
		},
		"level": {
			Kind: filterexpr.KindNumber,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpEQ:  "Level",
				filterexpr.OpGTE: "LevelMin",
				filterexpr.OpLTE: "LevelMax",
				filterexpr.OpGT:  "LevelAbove",
				filterexpr.OpLT:  "LevelBelow",
			},
		},
		"due": {
			Kind: filterexpr.KindBool,
			Ops:  map[filterexpr.Op]string{filterexpr.OpEQ: "Due"},
		},
		"next_review": {
			Kind: filterexpr.KindTimestamp,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpGTE: "ReviewAfter",
				filterexpr.OpLTE: "ReviewBefore",
			},
		},
		"created_at": {
			Kind: filterexpr.KindTimestamp,
			Ops:  map[filterexpr.Op]string{filterexpr.OpGTE: "CreatedAfter"},
		},
	},
	Order: filterexpr.OrderSchema{
		DefaultPrimary:     "created_at",
		DefaultPrimaryDesc: true,
		FallbackKey:        "id",
		FallbackDesc:       false,
		Fields: map[string]filterexpr.OrderField{
			"created_at":  {Expr: "created_at", Nulls: "last"},
			"english":     {Expr: "english", Nulls: "last"},
			"turkish":     {Expr: "turkish", Nulls: "last"},
			"level":       {Expr: "level", Nulls: "last"},
			"next_review": {Expr: "next_review", Nulls: "first"},
			"id":          {Expr: "id", Nulls: "last"},
		},
	},
}
