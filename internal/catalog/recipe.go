package catalog

import (
	"github.com/familyrecipes/backend/internal/types"
)

// catalogRecipe is the subset of the catalog recipe payload we read.
type catalogRecipe struct {
	ID                   int64                `json:"id"`
	Title                string               `json:"title"`
	ReadyInMinutes       int                  `json:"readyInMinutes"`
	Image                string               `json:"image"`
	AggregateLikes       *int                 `json:"aggregateLikes"`
	Vegan                bool                 `json:"vegan"`
	Vegetarian           bool                 `json:"vegetarian"`
	GlutenFree           bool                 `json:"glutenFree"`
	Servings             int                  `json:"servings"`
	ExtendedIngredients  []catalogIngredient  `json:"extendedIngredients"`
	AnalyzedInstructions []catalogInstruction `json:"analyzedInstructions"`
}

type catalogIngredient struct {
	Original string `json:"original"`
}

type catalogInstruction struct {
	Name  string `json:"name"`
	Steps []struct {
		Number int    `json:"number"`
		Step   string `json:"step"`
	} `json:"steps"`
}

func (r catalogRecipe) summary() types.RecipeSummary {
	return types.RecipeSummary{
		ID:             r.ID,
		Title:          r.Title,
		ReadyInMinutes: r.ReadyInMinutes,
		Image:          r.Image,
		Popularity:     r.AggregateLikes,
		Vegan:          r.Vegan,
		Vegetarian:     r.Vegetarian,
		GlutenFree:     r.GlutenFree,
		IsExternal:     true,
		Source:         types.SourceExternal.String(),
	}
}

// detail keeps only the first instruction block, which is where the catalog
// puts the main method.
func (r catalogRecipe) detail() types.RecipeDetail {
	ingredients := make([]string, 0, len(r.ExtendedIngredients))
	for _, ing := range r.ExtendedIngredients {
		ingredients = append(ingredients, ing.Original)
	}

	instructions := []string{}
	if len(r.AnalyzedInstructions) > 0 {
		for _, step := range r.AnalyzedInstructions[0].Steps {
			instructions = append(instructions, step.Step)
		}
	}

	return types.RecipeDetail{
		RecipeSummary: r.summary(),
		Servings:      r.Servings,
		Ingredients:   ingredients,
		Instructions:  instructions,
	}
}

func summaries(recipes []catalogRecipe) []types.RecipeSummary {
	out := make([]types.RecipeSummary, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.summary())
	}
	return out
}
