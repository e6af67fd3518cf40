package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByCategory(t *testing.T) {
	assert.Len(t, ByCategory(CategoryAll), 18)
	assert.Len(t, ByCategory(""), 18)
	assert.Len(t, ByCategory(CategoryMain), 6)
	assert.Len(t, ByCategory(CategoryCoffee), 6)
	assert.Len(t, ByCategory(CategoryDessert), 6)
	assert.Empty(t, ByCategory("drinks"))
}

func TestFind(t *testing.T) {
	p, ok := Find(1)
	assert.True(t, ok)
	assert.Equal(t, "Pizza Margherita", p.Name)
	assert.Equal(t, "649.5", p.Price.String())

	_, ok = Find(99)
	assert.False(t, ok)
}

func TestProductsReturnsCopy(t *testing.T) {
	ps := Products()
	ps[0].Name = "changed"
	p, _ := Find(1)
	assert.Equal(t, "Pizza Margherita", p.Name)
}

func TestCategoryValid(t *testing.T) {
	for _, c := range []Category{CategoryAll, CategoryMain, CategoryCoffee, CategoryDessert} {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, Category("drinks").Valid())
	assert.False(t, Category("").Valid())
}
