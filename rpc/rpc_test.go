package rpc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoModel(name string) Model {
	return NewModel(name, func(arg string, present bool) Result {
		if !present {
			return BadInput()
		}
		return OK(arg)
	})
}

func modelNames(r *Recipe) []string {
	out := make([]string, 0, r.Len())
	for _, m := range r.Models() {
		out = append(out, m.name)
	}
	return out
}

func TestStatusNames(t *testing.T) {
	assert.Equal(t, "UNDEFINED", StatusUndefined.String())
	assert.Equal(t, "OK", StatusOK.String())
	assert.Equal(t, "BAD_INPUT", StatusBadInput.String())
	assert.Equal(t, "BAD_RESULT", StatusBadResult.String())
	assert.Equal(t, "UNDEFINED", Status(99).String())

	for _, s := range []Status{StatusUndefined, StatusOK, StatusBadInput, StatusBadResult} {
		got, ok := ParseStatus(s.String())
		require.True(t, ok)
		assert.Equal(t, s, got)
	}
	_, ok := ParseStatus("MAYBE")
	assert.False(t, ok)
}

func TestResultFromStatusCarriesSymbolicName(t *testing.T) {
	res := NewResult(StatusBadInput)
	text, ok := res.Text()
	require.True(t, ok)
	assert.Equal(t, "BAD_INPUT", text)

	_, ok = NewEmptyResult(StatusOK).Text()
	assert.False(t, ok)

	text, _ = OK("42").Text()
	assert.Equal(t, "42", text)
	assert.Equal(t, StatusOK, OK("42").Status())
}

func TestModelCall(t *testing.T) {
	m := echoModel("echo").WithHelp("echoes its argument")
	assert.Equal(t, "echo", m.Name())
	assert.Equal(t, "echoes its argument", m.Help())

	res := m.Call("hi", true)
	text, _ := res.Text()
	assert.Equal(t, StatusOK, res.Status())
	assert.Equal(t, "hi", text)

	assert.Equal(t, StatusBadInput, m.Call("", false).Status())

	nilModel := NewModel("broken", nil)
	assert.Equal(t, StatusBadResult, nilModel.Call("", false).Status())
}

func TestSplitValues(t *testing.T) {
	assert.Nil(t, SplitValues(""))
	assert.Equal(t, []string{"1"}, SplitValues("1"))
	assert.Equal(t, []string{"1", "2", ""}, SplitValues("1|2|"))
}

func TestRecipeFindModel(t *testing.T) {
	r := NewRecipe("MOC", echoModel("a"), echoModel("b"))

	m, ok := r.FindModel("b")
	require.True(t, ok)
	assert.Equal(t, "b", m.Name())

	_, ok = r.FindModel("c")
	assert.False(t, ok)

	_, ok = r.FindModel("")
	assert.False(t, ok)
}

func TestRecipeExtractModelsDrains(t *testing.T) {
	r := NewRecipe("MOC", echoModel("a"), echoModel("b"))

	models := r.ExtractModels()
	require.Len(t, models, 2)
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.ExtractModels())
	assert.Equal(t, "MOC", r.Module())
}

func TestCookbookAddRecipeValidation(t *testing.T) {
	c := NewCookbook()

	err := c.AddRecipe(nil)
	assert.True(t, errors.Is(err, ErrNilRecipe))

	err = c.AddRecipe(NewRecipe("M"))
	require.Error(t, err)
	assert.Equal(t, "INVALID_MODULE", ErrorCode(err))

	err = c.AddRecipe(NewRecipe("MODULE"))
	assert.Equal(t, "INVALID_MODULE", ErrorCode(err))

	require.NoError(t, c.AddRecipe(NewRecipe("MOC")))
	assert.Equal(t, 1, c.Len())
}

func TestCookbookExtractRecipesMergesSharedModules(t *testing.T) {
	c := NewCookbook()
	require.NoError(t, c.AddRecipe(NewRecipe("SEN", echoModel("temp"))))
	require.NoError(t, c.AddRecipe(NewRecipe("PMP", echoModel("flow"))))
	require.NoError(t, c.AddRecipe(NewRecipe("SEN", echoModel("humidity"), echoModel("soil"))))

	recipes := c.ExtractRecipes()
	require.Len(t, recipes, 2)

	assert.Equal(t, "SEN", recipes[0].Module())
	assert.Equal(t, []string{"temp", "humidity", "soil"}, modelNames(recipes[0]))
	assert.Equal(t, "PMP", recipes[1].Module())
	assert.Equal(t, []string{"flow"}, modelNames(recipes[1]))

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.ExtractRecipes(), "extraction drains the cookbook")
}

func TestCookbookMergeTwoCookbooks(t *testing.T) {
	first := NewCookbook()
	second := NewCookbook()
	require.NoError(t, first.AddRecipe(NewRecipe("MOC", echoModel("a"), echoModel("b"))))
	require.NoError(t, second.AddRecipe(NewRecipe("MOC", echoModel("c"))))

	merged := NewCookbook()
	for _, r := range first.ExtractRecipes() {
		require.NoError(t, merged.AddRecipe(r))
	}
	for _, r := range second.ExtractRecipes() {
		require.NoError(t, merged.AddRecipe(r))
	}

	recipes := merged.ExtractRecipes()
	require.Len(t, recipes, 1)
	assert.Equal(t, []string{"a", "b", "c"}, modelNames(recipes[0]))
	assert.Empty(t, merged.ExtractRecipes())
}

func TestErrorCodeForForeignError(t *testing.T) {
	assert.Equal(t, "", ErrorCode(errors.New("plain")))
	assert.Equal(t, "NIL_RECIPE", ErrorCode(ErrNilRecipe))
}
