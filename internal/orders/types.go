package orders

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderType is how the customer receives the order.
type OrderType string

const (
	OrderTypeDineIn  OrderType = "dine-in"
	OrderTypeTakeOut OrderType = "take-out"
)

// PaymentMethod domain depends on the order type.
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentOnline      PaymentMethod = "online"
	PaymentCOD         PaymentMethod = "cod"
	PaymentPayAtPickup PaymentMethod = "pay-at-pickup"
)

var paymentMethods = map[OrderType][]PaymentMethod{
	OrderTypeDineIn:  {PaymentCash, PaymentOnline},
	OrderTypeTakeOut: {PaymentCOD, PaymentPayAtPickup},
}

// Valid reports whether t is a known order type.
func (t OrderType) Valid() bool {
	_, ok := paymentMethods[t]
	return ok
}

// PaymentMethods lists the payment methods accepted for t; the first one is the default.
func (t OrderType) PaymentMethods() []PaymentMethod {
	return append([]PaymentMethod(nil), paymentMethods[t]...)
}

// Accepts reports whether pm is in t's payment domain.
func (t OrderType) Accepts(pm PaymentMethod) bool {
	for _, m := range paymentMethods[t] {
		if m == pm {
			return true
		}
	}
	return false
}

// Customer holds the table number for dine-in orders or the phone for take-out.
type Customer struct {
	Name        string `json:"name"`
	TableNumber string `json:"tableNumber,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// Item is one order line; Price is the unit price at checkout time.
type Item struct {
	ProductID int             `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// LineTotal is Price × Quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is one element of the shared orders blob.
type Order struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"orderNumber"`
	Customer      Customer        `json:"customer"`
	OrderType     OrderType       `json:"orderType"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Items         []Item          `json:"items"`
	Total         decimal.Decimal `json:"total"` // computed once at checkout
	Status        Status          `json:"status"`
	Timestamp     Timestamp       `json:"timestamp"`
}

// NewOrder builds a pending order with a fresh id and order number. The total is
// computed here and never recomputed afterwards.
func NewOrder(customer Customer, orderType OrderType, payment PaymentMethod, items []Item, now time.Time) Order {
	lines := make([]Item, len(items))
	copy(lines, items)
	return Order{
		ID:            uuid.NewString(),
		OrderNumber:   NewOrderNumber(),
		Customer:      customer,
		OrderType:     orderType,
		PaymentMethod: payment,
		Items:         lines,
		Total:         SumItems(lines),
		Status:        StatusPending,
		Timestamp:     At(now),
	}
}

// NewOrderNumber returns "#" followed by a zero-padded random number below 10000.
// Collisions are not checked.
func NewOrderNumber() string {
	return fmt.Sprintf("#%04d", rand.IntN(10000))
}

// SumItems returns Σ price × quantity.
func SumItems(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// TestOrder is the synthetic order the dashboard inserts for manual testing.
func TestOrder(now time.Time) Order {
	price := decimal.NewFromInt(100)
	return Order{
		ID:            "TEST123",
		OrderNumber:   "#TEST001",
		Customer:      Customer{Name: "Test Customer", TableNumber: "Table 5"},
		OrderType:     OrderTypeDineIn,
		PaymentMethod: PaymentCash,
		Items:         []Item{{ProductID: 1, Name: "Test Pizza", Price: price, Quantity: 1}},
		Total:         price,
		Status:        StatusPending,
		Timestamp:     At(now),
	}
}

// FormatAmount renders a peso amount with two decimals, dropping a ".00" suffix.
func FormatAmount(d decimal.Decimal) string {
	return "₱" + strings.TrimSuffix(d.StringFixed(2), ".00")
}
