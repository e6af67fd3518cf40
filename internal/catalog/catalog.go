// Package catalog holds the static menu the customer flow sells from.
package catalog

import "github.com/shopspring/decimal"

// Category groups products on the menu.
type Category string

const (
	CategoryAll     Category = "all"
	CategoryMain    Category = "main"
	CategoryCoffee  Category = "coffee"
	CategoryDessert Category = "dessert"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryAll, CategoryMain, CategoryCoffee, CategoryDessert:
		return true
	}
	return false
}

// Product is one menu entry.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
}

var products = []Product{
	{ID: 1, Name: "Pizza Margherita", Price: decimal.RequireFromString("649.50"), Description: "Classic tomato and mozzarella", Category: CategoryMain},
	{ID: 2, Name: "Burger Deluxe", Price: decimal.RequireFromString("799.50"), Description: "Beef burger with fries", Category: CategoryMain},
	{ID: 3, Name: "Caesar Salad", Price: decimal.RequireFromString("449.50"), Description: "Fresh greens with dressing", Category: CategoryMain},
	{ID: 4, Name: "Pasta Carbonara", Price: decimal.RequireFromString("699.50"), Description: "Creamy pasta with bacon", Category: CategoryMain},
	{ID: 5, Name: "Chicken Adobo", Price: decimal.RequireFromString("599.50"), Description: "Traditional Filipino chicken dish", Category: CategoryMain},
	{ID: 6, Name: "Beef Tapa", Price: decimal.RequireFromString("749.50"), Description: "Cured beef with garlic rice and egg", Category: CategoryMain},

	{ID: 7, Name: "Espresso", Price: decimal.RequireFromString("149.50"), Description: "Single shot of pure coffee", Category: CategoryCoffee},
	{ID: 8, Name: "Cappuccino", Price: decimal.RequireFromString("199.50"), Description: "Espresso with steamed milk foam", Category: CategoryCoffee},
	{ID: 9, Name: "Latte", Price: decimal.RequireFromString("219.50"), Description: "Espresso with steamed milk", Category: CategoryCoffee},
	{ID: 10, Name: "Americano", Price: decimal.RequireFromString("169.50"), Description: "Espresso with hot water", Category: CategoryCoffee},
	{ID: 11, Name: "Mocha", Price: decimal.RequireFromString("239.50"), Description: "Espresso with chocolate and milk", Category: CategoryCoffee},
	{ID: 12, Name: "Caramel Macchiato", Price: decimal.RequireFromString("259.50"), Description: "Espresso with caramel and milk", Category: CategoryCoffee},

	{ID: 13, Name: "Chocolate Cake", Price: decimal.RequireFromString("299.50"), Description: "Rich chocolate layer cake", Category: CategoryDessert},
	{ID: 14, Name: "Tiramisu", Price: decimal.RequireFromString("349.50"), Description: "Italian coffee-flavored dessert", Category: CategoryDessert},
	{ID: 15, Name: "Cheesecake", Price: decimal.RequireFromString("329.50"), Description: "Creamy New York style cheesecake", Category: CategoryDessert},
	{ID: 16, Name: "Ice Cream Sundae", Price: decimal.RequireFromString("279.50"), Description: "Vanilla ice cream with toppings", Category: CategoryDessert},
	{ID: 17, Name: "Halo-Halo", Price: decimal.RequireFromString("259.50"), Description: "Filipino mixed dessert with shaved ice", Category: CategoryDessert},
	{ID: 18, Name: "Leche Flan", Price: decimal.RequireFromString("189.50"), Description: "Filipino caramel custard", Category: CategoryDessert},
}

// Products returns the full menu.
func Products() []Product {
	return append([]Product(nil), products...)
}

// ByCategory filters the menu; CategoryAll or "" returns everything.
func ByCategory(c Category) []Product {
	if c == "" || c == CategoryAll {
		return Products()
	}
	out := []Product{}
	for _, p := range products {
		if p.Category == c {
			out = append(out, p)
		}
	}
	return out
}

// Find looks a product up by id.
func Find(id int) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
