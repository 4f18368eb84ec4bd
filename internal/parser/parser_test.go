package parser

import (
	"errors"
	"os"
	"testing"

	"github.com/goliatone/go-recipemd/internal/markup"
	"github.com/goliatone/go-recipemd/internal/model"
)

func readFixture(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", path, err)
	}
	return string(data)
}

func mustParse(t *testing.T, src string) *model.Recipe {
	t.Helper()
	recipe, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return recipe
}

func expectError(t *testing.T, src string, kind ErrorKind) *Error {
	t.Helper()
	recipe, err := Parse(src)
	if err == nil {
		t.Fatalf("expected %v, got recipe %#v", kind, recipe)
	}
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	return perr
}

func expectSpan(t *testing.T, src string, perr *Error, want string) {
	t.Helper()
	if perr.Span == nil {
		t.Fatalf("expected span covering %q, got nil", want)
	}
	if got := perr.Span.Slice(src); got != want {
		t.Fatalf("expected span covering %q, got %q (%s)", want, got, perr.Span)
	}
}

func strPtr(s string) *string {
	return &s
}

func TestParse_Water(t *testing.T) {
	src := readFixture(t, "testdata/water.md")
	recipe := mustParse(t, src)

	one := model.Integer(1)
	want := &model.Recipe{
		Title:       "Water",
		Description: strPtr("A refreshing drink."),
		Tags:        []string{"drink", "non-alcoholic", "H2O"},
		Yields:      []model.Amount{{Factor: &one, Unit: strPtr("glass")}},
		IngredientGroups: []model.IngredientGroup{{
			Ingredients: []model.Ingredient{
				{Amount: &model.Amount{Factor: &one}, Name: "glass"},
				{Amount: &model.Amount{Factor: &one}, Name: "faucet"},
			},
		}},
		Instructions: strPtr("Turn on the faucet and fill the glass."),
	}
	if !recipe.Equal(want) {
		t.Fatalf("unexpected recipe:\n got: %#v\nwant: %#v", recipe, want)
	}
	if recipe.IngredientGroups[0].Title != nil {
		t.Fatalf("expected anonymous group, got %q", *recipe.IngredientGroups[0].Title)
	}
}

func TestParse_Deterministic(t *testing.T) {
	for _, path := range []string{"testdata/water.md", "testdata/groups.md"} {
		src := readFixture(t, path)
		first := mustParse(t, src)
		second := mustParse(t, src)
		if !first.Equal(second) {
			t.Fatalf("%s: parses differ", path)
		}
	}
}

func TestParse_GroupsLinksAndYields(t *testing.T) {
	recipe := mustParse(t, readFixture(t, "testdata/groups.md"))

	if len(recipe.Tags) != 2 || recipe.Tags[0] != "baking" || recipe.Tags[1] != "italian" {
		t.Fatalf("unexpected tags %#v", recipe.Tags)
	}
	if len(recipe.Yields) != 2 {
		t.Fatalf("expected 2 yields, got %#v", recipe.Yields)
	}
	if f := recipe.Yields[0].Factor; f == nil || *f != model.Integer(2) || *recipe.Yields[0].Unit != "pizzas" {
		t.Fatalf("unexpected first yield %s", recipe.Yields[0])
	}
	if f := recipe.Yields[1].Factor; f == nil || *f != model.Float(1.5) || *recipe.Yields[1].Unit != "kg" {
		t.Fatalf("unexpected second yield %s", recipe.Yields[1])
	}

	if len(recipe.IngredientGroups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(recipe.IngredientGroups))
	}
	dough, topping := recipe.IngredientGroups[0], recipe.IngredientGroups[1]
	if dough.Title == nil || *dough.Title != "Dough" || len(dough.Ingredients) != 3 {
		t.Fatalf("unexpected dough group %#v", dough)
	}
	if *dough.Ingredients[1].Amount.Factor != model.Fraction(3, 2) || *dough.Ingredients[1].Amount.Unit != "tsp" {
		t.Fatalf("unexpected salt amount %s", dough.Ingredients[1].Amount)
	}
	yeast := dough.Ingredients[2]
	if yeast.Name != "dry yeast" || yeast.Link == nil || *yeast.Link != "https://example.org/yeast%20and%20more" {
		t.Fatalf("unexpected yeast ingredient %#v", yeast)
	}
	if *yeast.Amount.Factor != model.Integer(7) || *yeast.Amount.Unit != "g" {
		t.Fatalf("unexpected yeast amount %s", yeast.Amount)
	}

	if topping.Title == nil || *topping.Title != "Topping" || len(topping.Ingredients) != 2 {
		t.Fatalf("unexpected topping group %#v", topping)
	}
	sauce := topping.Ingredients[0]
	if sauce.Amount != nil || sauce.Name != "tomato sauce" || *sauce.Link != "https://example.org/sauce" {
		t.Fatalf("unexpected sauce ingredient %#v", sauce)
	}
	if oil := topping.Ingredients[1]; oil.Name != "olive oil" || oil.Link != nil || oil.Amount != nil {
		t.Fatalf("unexpected oil ingredient %#v", oil)
	}

	if recipe.Instructions == nil || *recipe.Instructions != "Mix everything.\n\nLet it rest for *1 hour*." {
		t.Fatalf("unexpected instructions %v", recipe.Instructions)
	}
}

func TestParse_LooseListIsFlattened(t *testing.T) {
	recipe := mustParse(t, "# Tea\n\n---\n\n- *1* cup\n\n- *2 g* leaves\n")

	ingredients := recipe.IngredientGroups[0].Ingredients
	if len(ingredients) != 2 || ingredients[0].Name != "cup" || ingredients[1].Name != "leaves" {
		t.Fatalf("unexpected ingredients %#v", ingredients)
	}
	if recipe.Instructions != nil {
		t.Fatalf("expected no instructions without a second divider, got %q", *recipe.Instructions)
	}
	if recipe.Description != nil {
		t.Fatalf("expected no description, got %q", *recipe.Description)
	}
}

func TestParse_MultiParagraphDescription(t *testing.T) {
	recipe := mustParse(t, "# Tea\n\nline one\n\nline two\n\n---\n\n- water\n")
	if recipe.Description == nil || *recipe.Description != "line one\n\nline two" {
		t.Fatalf("unexpected description %v", recipe.Description)
	}
	if len(recipe.Tags) != 0 || len(recipe.Yields) != 0 {
		t.Fatalf("expected no tags or yields, got %#v %#v", recipe.Tags, recipe.Yields)
	}
}

func TestParse_ExpectedTitle(t *testing.T) {
	src := "Hello\n\n---\n"
	perr := expectError(t, src, ErrExpectedTitle)
	expectSpan(t, src, perr, "Hello\n")

	src = "## Not a title\n"
	perr = expectError(t, src, ErrExpectedTitle)
	expectSpan(t, src, perr, "## Not a title\n")

	perr = expectError(t, "", ErrExpectedTitle)
	if perr.Span != nil {
		t.Fatalf("expected nil span at end of input, got %s", perr.Span)
	}
}

func TestParse_MissingDividerAtEndOfInput(t *testing.T) {
	perr := expectError(t, "# Tea\n\nA description.\n", ErrExpectedHorizontalLine)
	if perr.Span != nil {
		t.Fatalf("expected nil span at end of input, got %s", perr.Span)
	}
}

func TestParse_UnexpectedNodeInIngredients(t *testing.T) {
	src := "# Tea\n\n---\n\n- water\n\nstray paragraph\n"
	perr := expectError(t, src, ErrExpectedHorizontalLine)
	expectSpan(t, src, perr, "stray paragraph\n")
}

func TestParse_MultipleTagsSections(t *testing.T) {
	src := "# Tea\n\n*hot*\n\n*cold*\n\n---\n\n- water\n"
	perr := expectError(t, src, ErrMultipleTagsSections)
	expectSpan(t, src, perr, "*cold*")
}

func TestParse_MultipleYieldsSections(t *testing.T) {
	src := "# Tea\n\n**1 cup**\n\n**2 cups**\n\n---\n\n- water\n"
	perr := expectError(t, src, ErrMultipleYieldsSections)
	expectSpan(t, src, perr, "**2 cups**")
}

func TestParse_MultipleDescriptionSections(t *testing.T) {
	src := "# Tea\n\nfirst part\n\n*hot*\n\nsecond part\n\n---\n\n- water\n"
	perr := expectError(t, src, ErrMultipleDescriptionSections)
	expectSpan(t, src, perr, "second part")
}

func TestParse_DescriptionBeforeAndAfterYields(t *testing.T) {
	recipe := mustParse(t, "# Tea\n\n**1 cup**\n\nafter yields\n\n---\n\n- water\n")
	if recipe.Description == nil || *recipe.Description != "**1 cup**\n\nafter yields" {
		t.Fatalf("unexpected description %v", recipe.Description)
	}
}

func TestParse_EmptyIngredient(t *testing.T) {
	for _, src := range []string{
		"# Tea\n\n---\n\n- **  **\n",
		"# Tea\n\n---\n\n- *1*\n",
		"# Tea\n\n---\n\n- *1* [](https://example.org)\n",
		"# Tea\n\n---\n\n-\n",
	} {
		expectError(t, src, ErrEmptyIngredient)
	}
}

func TestParse_EmptyIngredientGroup(t *testing.T) {
	src := "# Tea\n\n---\n\n## First\n\n## Second\n\n- water\n"
	perr := expectError(t, src, ErrEmptyIngredientGroup)
	expectSpan(t, src, perr, "## First\n")

	src = "# Tea\n\n---\n\n- water\n\n## Trailing\n"
	perr = expectError(t, src, ErrEmptyIngredientGroup)
	expectSpan(t, src, perr, "## Trailing\n")

	perr = expectError(t, "# Tea\n\n---\n", ErrEmptyIngredientGroup)
	if perr.Span != nil {
		t.Fatalf("expected nil span, got %s", perr.Span)
	}
}

func TestErrorKind_MessagesAndCodes(t *testing.T) {
	err := &Error{Kind: ErrEmptyIngredient, Span: &markup.Span{Start: 3, End: 7}}
	if err.Error() != "failed to parse recipe: ingredient is missing a name at 3..7" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if err.Code() != "RECIPE_EMPTY_INGREDIENT" {
		t.Fatalf("unexpected code %q", err.Code())
	}
	if ErrMultipleDescriptionSections.Error() != "found description sections that are split by tags or yields section(s)" {
		t.Fatalf("unexpected message %q", ErrMultipleDescriptionSections.Error())
	}
}

func TestPosition(t *testing.T) {
	src := "# Tea\n\nä line\n"
	cases := []struct {
		offset       int
		line, column int
	}{
		{0, 1, 1},
		{6, 2, 1},
		{7, 3, 1},
		{9, 3, 2},
		{len(src), 4, 1},
		{-3, 1, 1},
	}
	for _, tc := range cases {
		line, column := Position(src, tc.offset)
		if line != tc.line || column != tc.column {
			t.Fatalf("Position(%d) = %d:%d, want %d:%d", tc.offset, line, column, tc.line, tc.column)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" drink, non-alcoholic ,H2O,, 1,5 l ")
	want := []string{"drink", "non-alcoholic", "H2O", "1,5 l"}
	if len(got) != len(want) {
		t.Fatalf("splitList = %#v, want %#v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("splitList = %#v, want %#v", got, want)
		}
	}
}

func TestClassify(t *testing.T) {
	recipe := mustParse(t, "# Tea\n\n---\n\n- *1* [cup](https://example.org/cup)\n- *2 g*leaves and stems\n- [kettle](https://example.org/k)\n- plain water\n")

	ingredients := recipe.IngredientGroups[0].Ingredients
	if ingredients[0].Name != "cup" || ingredients[0].Link == nil || ingredients[0].Amount == nil {
		t.Fatalf("amount and link shape mismatch: %#v", ingredients[0])
	}
	if ingredients[1].Name != "leaves and stems" || ingredients[1].Link != nil {
		t.Fatalf("amount and name shape mismatch: %#v", ingredients[1])
	}
	if ingredients[2].Amount != nil || ingredients[2].Link == nil || ingredients[2].Name != "kettle" {
		t.Fatalf("link shape mismatch: %#v", ingredients[2])
	}
	if ingredients[3].Amount != nil || ingredients[3].Name != "plain water" {
		t.Fatalf("name shape mismatch: %#v", ingredients[3])
	}
}
