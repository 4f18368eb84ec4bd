package parser

import (
	"testing"

	"github.com/goliatone/go-recipemd/internal/model"
	"github.com/goliatone/go-recipemd/pkg/testsupport"
)

func TestParse_MatchesGoldenJSON(t *testing.T) {
	src, err := testsupport.LoadFixture("testdata/water.md")
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	recipe, err := ParseBytes(src)
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}

	var want model.Recipe
	if err := testsupport.LoadGolden("testdata/water.json", &want); err != nil {
		t.Fatalf("load golden: %v", err)
	}
	if !recipe.Equal(&want) {
		t.Fatalf("recipe does not match golden:\n got: %#v\nwant: %#v", recipe, want)
	}
}
