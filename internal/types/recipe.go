package types

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/familyrecipes/backend/internal/apperror"
)

// Source tags which store a recipe lives in. It is the only branch point
// between the external catalog and the local database.
type Source int

const (
	SourceExternal Source = iota
	SourceLocal
)

// Query-string spellings of the two sources.
const (
	SourceParamExternal = "spoon"
	SourceParamLocal    = "db"
)

// SourceOf converts the persisted is_external flag back to a Source.
func SourceOf(isExternal bool) Source {
	if isExternal {
		return SourceExternal
	}
	return SourceLocal
}

// ParseSource reads a source selector. Anything other than "db" selects the
// external catalog.
func ParseSource(s string) Source {
	if strings.EqualFold(strings.TrimSpace(s), SourceParamLocal) {
		return SourceLocal
	}
	return SourceExternal
}

func (s Source) IsExternal() bool {
	return s == SourceExternal
}

func (s Source) String() string {
	if s == SourceLocal {
		return SourceParamLocal
	}
	return SourceParamExternal
}

// RecipeRef identifies a recipe. The same numeric id may exist in both
// sources, so the id is never used without its source.
type RecipeRef struct {
	ID     int64
	Source Source
}

func ExternalRef(id int64) RecipeRef { return RecipeRef{ID: id, Source: SourceExternal} }
func LocalRef(id int64) RecipeRef    { return RecipeRef{ID: id, Source: SourceLocal} }

// Key renders the ref as "<id>-<source>".
func (r RecipeRef) Key() string {
	return strconv.FormatInt(r.ID, 10) + "-" + r.Source.String()
}

// ParseRecipeID validates a recipe id taken from a path or body.
func ParseRecipeID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validation("recipeId", "Invalid recipeId")
	}
	return id, nil
}

// RecipeSummary is the preview shape shared by both sources.
type RecipeSummary struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	ReadyInMinutes int    `json:"readyInMinutes"`
	Image          string `json:"image"`
	Popularity     *int   `json:"popularity,omitempty"`
	Vegan          bool   `json:"vegan"`
	Vegetarian     bool   `json:"vegetarian"`
	GlutenFree     bool   `json:"glutenFree"`
	IsExternal     bool   `json:"isExternal"`
	Source         string `json:"source"`
}

// Ref returns the identity of the summarized recipe.
func (s RecipeSummary) Ref() RecipeRef {
	return RecipeRef{ID: s.ID, Source: SourceOf(s.IsExternal)}
}

// FamilyStory is the optional provenance of a family recipe.
type FamilyStory struct {
	Who  string `json:"who"`
	When string `json:"when"`
}

// RecipeDetail is the full recipe in canonical form. Ingredients are rendered
// strings ("2 cups Flour") whatever the source.
type RecipeDetail struct {
	RecipeSummary
	Servings       int          `json:"servings"`
	Ingredients    []string     `json:"ingredients"`
	Instructions   []string     `json:"instructions"`
	IsFamilyRecipe bool         `json:"isFamilyRecipe,omitempty"`
	FamilyStory    *FamilyStory `json:"familyStory,omitempty"`
	OwnerID        int64        `json:"ownerId,omitempty"`
}

// IngredientInput accepts either "2 cups Flour" or {"name": "Flour", "quantity": "2 cups"}.
type IngredientInput struct {
	Text     string
	Name     string
	Quantity string
	isPair   bool
}

// TextIngredient and PairIngredient build inputs in code.
func TextIngredient(text string) IngredientInput { return IngredientInput{Text: text} }
func PairIngredient(name, quantity string) IngredientInput {
	return IngredientInput{Name: name, Quantity: quantity, isPair: true}
}

func (i *IngredientInput) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*i = TextIngredient(text)
		return nil
	}

	var pair struct {
		Name     string `json:"name"`
		Quantity string `json:"quantity"`
	}
	if err := json.Unmarshal(data, &pair); err != nil {
		return apperror.Validation("ingredients", "Ingredients must be valid strings or objects with name and quantity")
	}
	*i = PairIngredient(pair.Name, pair.Quantity)
	return nil
}

func (i IngredientInput) MarshalJSON() ([]byte, error) {
	if !i.isPair {
		return json.Marshal(i.Text)
	}
	return json.Marshal(struct {
		Name     string `json:"name"`
		Quantity string `json:"quantity"`
	}{i.Name, i.Quantity})
}

// Valid reports whether the ingredient carries the text it needs.
func (i IngredientInput) Valid() bool {
	if i.isPair {
		return strings.TrimSpace(i.Name) != "" && strings.TrimSpace(i.Quantity) != ""
	}
	return strings.TrimSpace(i.Text) != ""
}

// Split returns the quantity and name columns. A text ingredient is split at
// its first space: "2 cups Flour" becomes ("2", "cups Flour").
func (i IngredientInput) Split() (quantity, name string) {
	if i.isPair {
		return strings.TrimSpace(i.Quantity), strings.TrimSpace(i.Name)
	}
	quantity, name, _ = strings.Cut(strings.TrimSpace(i.Text), " ")
	return quantity, strings.TrimSpace(name)
}
