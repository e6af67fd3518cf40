// Package session implements the customer side: a cart, the checkout draft and
// the step a customer is on. Checkout appends exactly one order to the shared store.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-restaurant-orderboard/internal/catalog"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/orders"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/validation"
)

// Step is the screen a customer is on.
type Step string

const (
	StepCatalog      Step = "catalog"
	StepCart         Step = "cart"
	StepCheckout     Step = "checkout"
	StepConfirmation Step = "confirmation"
)

var (
	// ErrEmptyCart is returned when moving to the cart or checkout with nothing in it.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrUnknownProduct is returned when a product id is not on the menu.
	ErrUnknownProduct = errors.New("unknown product")
)

// Draft is the customer information typed on the checkout screen.
type Draft struct {
	Name          string               `json:"name"`
	OrderType     orders.OrderType     `json:"order_type"`
	TableNumber   string               `json:"table_number"`
	Phone         string               `json:"phone"`
	PaymentMethod orders.PaymentMethod `json:"payment_method"`
}

func newDraft() Draft {
	return Draft{OrderType: orders.OrderTypeDineIn, PaymentMethod: orders.PaymentCash}
}

// View is a read-only snapshot of a session.
type View struct {
	ID              string          `json:"id"`
	Step            Step            `json:"step"`
	Lines           []Line          `json:"lines"`
	Total           decimal.Decimal `json:"total"`
	Draft           Draft           `json:"draft"`
	LastOrderNumber string          `json:"last_order_number,omitempty"`
}

// Session is one customer's cart and checkout draft. Safe for concurrent use.
type Session struct {
	ID string

	mu              sync.Mutex
	cart            *Cart
	draft           Draft
	step            Step
	lastOrderNumber string

	store    *orders.Store
	validate *validatorv10.Validate
	nowFunc  func() time.Time
}

// New creates a session writing checkouts to store.
func New(store *orders.Store, v *validatorv10.Validate) *Session {
	return &Session{
		ID:       uuid.NewString(),
		cart:     NewCart(),
		draft:    newDraft(),
		step:     StepCatalog,
		store:    store,
		validate: v,
		nowFunc:  time.Now,
	}
}

// View snapshots the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		ID:              s.ID,
		Step:            s.step,
		Lines:           s.cart.Lines(),
		Total:           s.cart.Total(),
		Draft:           s.draft,
		LastOrderNumber: s.lastOrderNumber,
	}
}

// AddProduct adds one unit of a menu product to the cart.
func (s *Session) AddProduct(productID int) error {
	p, ok := catalog.Find(productID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownProduct, productID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Add(p)
	return nil
}

// AddProductN adds n of a catalog product in one step.
func (s *Session) AddProductN(productID, n int) error {
	p, ok := catalog.Find(productID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownProduct, productID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.AddN(p, n)
	return nil
}

// SetQuantity sets a cart line's quantity; n <= 0 removes the line.
func (s *Session) SetQuantity(productID, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.SetQuantity(productID, n)
	s.fallBackIfEmpty()
}

// Remove deletes a cart line.
func (s *Session) Remove(productID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Remove(productID)
	s.fallBackIfEmpty()
}

// the cart and checkout screens are only reachable with something in the cart
func (s *Session) fallBackIfEmpty() {
	if s.cart.Empty() && (s.step == StepCart || s.step == StepCheckout) {
		s.step = StepCatalog
	}
}

// SetOrderType switches between dine-in and take-out. The payment method falls
// back to the new type's default when the current one is not accepted.
func (s *Session) SetOrderType(t orders.OrderType) error {
	if !t.Valid() {
		return fmt.Errorf("unknown order type %q", t)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.OrderType = t
	if !t.Accepts(s.draft.PaymentMethod) {
		s.draft.PaymentMethod = t.PaymentMethods()[0]
	}
	return nil
}

// SetCustomer updates the name, table number and phone of the draft.
func (s *Session) SetCustomer(name, tableNumber, phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Name = strings.TrimSpace(name)
	s.draft.TableNumber = strings.TrimSpace(tableNumber)
	s.draft.Phone = strings.TrimSpace(phone)
}

// SetPaymentMethod records the payment choice; it is checked against the order type at checkout.
func (s *Session) SetPaymentMethod(pm orders.PaymentMethod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.PaymentMethod = pm
}

// ViewCart moves from the catalog to the cart screen.
func (s *Session) ViewCart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart.Empty() {
		return ErrEmptyCart
	}
	s.step = StepCart
	return nil
}

// ContinueShopping returns to the catalog.
func (s *Session) ContinueShopping() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step = StepCatalog
}

// ProceedToCheckout moves from the cart to the checkout screen.
func (s *Session) ProceedToCheckout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart.Empty() {
		return ErrEmptyCart
	}
	s.step = StepCheckout
	return nil
}

// BackToCart returns from checkout to the cart.
func (s *Session) BackToCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step = StepCart
	s.fallBackIfEmpty()
}

// NewOrder clears everything and starts over on the catalog.
func (s *Session) NewOrder() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.lastOrderNumber = ""
}

func (s *Session) reset() {
	s.cart.Reset()
	s.draft = newDraft()
	s.step = StepCatalog
}

// checkoutRequest builds the validation payload from the current draft and cart.
func (s *Session) checkoutRequest() validation.CheckoutRequest {
	req := validation.CheckoutRequest{
		Name:          s.draft.Name,
		OrderType:     string(s.draft.OrderType),
		TableNumber:   s.draft.TableNumber,
		Phone:         s.draft.Phone,
		PaymentMethod: string(s.draft.PaymentMethod),
	}
	for _, l := range s.cart.Lines() {
		req.Lines = append(req.Lines, validation.Line{ProductID: l.Product.ID, Quantity: l.Quantity})
	}
	return req
}

// Checkout validates the draft, appends a pending order to the store and resets
// the cart and draft. An invalid draft returns *validation.Error and writes nothing.
func (s *Session) Checkout(ctx context.Context) (*orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validation.Struct(s.validate, s.checkoutRequest()); err != nil {
		return nil, err
	}

	customer := orders.Customer{Name: s.draft.Name}
	if s.draft.OrderType == orders.OrderTypeDineIn {
		customer.TableNumber = s.draft.TableNumber
	} else {
		customer.Phone = s.draft.Phone
	}
	order := orders.NewOrder(customer, s.draft.OrderType, s.draft.PaymentMethod, s.cart.Items(), s.nowFunc())

	if _, err := s.store.Append(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}
	log.Printf("[session] order placed id=%s number=%s total=%s", order.ID, order.OrderNumber, orders.FormatAmount(order.Total))

	s.reset()
	s.step = StepConfirmation
	s.lastOrderNumber = order.OrderNumber
	return &order, nil
}
