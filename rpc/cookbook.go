package rpc

import "github.com/goliatone/go-prompt/dialect"

// Cookbook stages recipes contributed by independent subsystems during
// bring-up. Recipes sharing a module name are merged by ExtractRecipes.
type Cookbook struct {
	recipes []*Recipe
}

func NewCookbook() *Cookbook {
	return &Cookbook{}
}

// AddRecipe stages a recipe. Module name uniqueness is not checked here.
func (c *Cookbook) AddRecipe(r *Recipe) error {
	if r == nil {
		return ErrNilRecipe
	}
	if !dialect.ValidModuleLength(len(r.module)) {
		return ErrInvalidModule.Clone().WithMetadata(map[string]any{
			"module": r.module,
		})
	}
	c.recipes = append(c.recipes, r)
	return nil
}

// Len returns the number of staged recipes.
func (c *Cookbook) Len() int {
	return len(c.recipes)
}

// ExtractRecipes consolidates and drains the cookbook. One recipe is returned
// per distinct module, in order of first registration; models keep their
// staging order.
func (c *Cookbook) ExtractRecipes() []*Recipe {
	var names []string
	seen := make(map[string]struct{}, len(c.recipes))
	for _, r := range c.recipes {
		if _, ok := seen[r.module]; ok {
			continue
		}
		seen[r.module] = struct{}{}
		names = append(names, r.module)
	}

	out := make([]*Recipe, 0, len(names))
	for _, name := range names {
		merged := NewRecipe(name)
		for _, r := range c.recipes {
			if r.module != name {
				continue
			}
			for _, m := range r.ExtractModels() {
				merged.AddModel(m)
			}
		}
		out = append(out, merged)
	}

	c.recipes = nil
	return out
}
