package rpc

// Recipe is a module's ordered collection of models.
type Recipe struct {
	module string
	models []Model
}

// NewRecipe builds a recipe for module holding models in the given order.
func NewRecipe(module string, models ...Model) *Recipe {
	r := &Recipe{module: module, models: make([]Model, 0, len(models))}
	r.models = append(r.models, models...)
	return r
}

func (r *Recipe) Module() string {
	return r.module
}

// AddModel appends m to the recipe.
func (r *Recipe) AddModel(m Model) {
	r.models = append(r.models, m)
}

// Models exposes the stored models. Callers must not retain pointers into the
// slice past the recipe's lifetime.
func (r *Recipe) Models() []Model {
	return r.models
}

func (r *Recipe) Len() int {
	return len(r.models)
}

// FindModel returns the model registered under name. Recipes are small so a
// linear scan is used.
func (r *Recipe) FindModel(name string) (*Model, bool) {
	for i := range r.models {
		if r.models[i].name == name {
			return &r.models[i], true
		}
	}
	return nil, false
}

// ExtractModels moves the models out of the recipe, leaving it empty.
func (r *Recipe) ExtractModels() []Model {
	out := r.models
	r.models = nil
	return out
}
