package orders

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_ForwardOnly(t *testing.T) {
	p := PolicyForwardOnly
	allowed := [][2]Status{
		{StatusPending, StatusPreparing},
		{StatusPending, StatusReady},
		{StatusPreparing, StatusReady},
		{StatusReady, StatusDelivered},
		{StatusPending, StatusDelivered},
		{StatusReady, StatusReady},
	}
	for _, tr := range allowed {
		assert.NoError(t, p.Check(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}
	rejected := [][2]Status{
		{StatusReady, StatusPending},
		{StatusDelivered, StatusPreparing},
		{StatusPreparing, StatusPending},
	}
	for _, tr := range rejected {
		assert.ErrorIs(t, p.Check(tr[0], tr[1]), ErrInvalidTransition, "%s -> %s", tr[0], tr[1])
	}
	assert.ErrorIs(t, p.Check(StatusPending, Status("cancelled")), ErrInvalidTransition)
}

func TestPolicy_Permissive(t *testing.T) {
	p := PolicyPermissive
	assert.NoError(t, p.Check(StatusDelivered, StatusPending))
	assert.ErrorIs(t, p.Check(StatusPending, Status("bogus")), ErrInvalidTransition)
}

func TestParsePolicyAndStatus(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyForwardOnly, p)
	p, err = ParsePolicy("permissive")
	require.NoError(t, err)
	assert.Equal(t, "permissive", p.String())
	_, err = ParsePolicy("strict-ish")
	assert.Error(t, err)

	s, err := ParseStatus("ready")
	require.NoError(t, err)
	assert.Equal(t, StatusReady, s)
	_, err = ParseStatus("READY")
	assert.Error(t, err)
}

func TestStatus_Next(t *testing.T) {
	s, ok := StatusPending.Next()
	assert.True(t, ok)
	assert.Equal(t, StatusPreparing, s)
	_, ok = StatusDelivered.Next()
	assert.False(t, ok)
}

func TestOrderType_PaymentDomain(t *testing.T) {
	assert.True(t, OrderTypeDineIn.Accepts(PaymentCash))
	assert.True(t, OrderTypeDineIn.Accepts(PaymentOnline))
	assert.False(t, OrderTypeDineIn.Accepts(PaymentCOD))
	assert.True(t, OrderTypeTakeOut.Accepts(PaymentPayAtPickup))
	assert.False(t, OrderTypeTakeOut.Accepts(PaymentCash))
	assert.False(t, OrderType("delivery").Valid())
	assert.Equal(t, PaymentCOD, OrderTypeTakeOut.PaymentMethods()[0])
}

func TestNewOrder(t *testing.T) {
	now := time.Now()
	items := []Item{
		{ProductID: 1, Name: "Pizza Margherita", Price: decimal.RequireFromString("649.50"), Quantity: 2},
		{ProductID: 7, Name: "Espresso", Price: decimal.RequireFromString("149.50"), Quantity: 1},
	}
	o := NewOrder(Customer{Name: "Ana", Phone: "0917"}, OrderTypeTakeOut, PaymentCOD, items, now)

	assert.NotEmpty(t, o.ID)
	assert.Regexp(t, `^#\d{4}$`, o.OrderNumber)
	assert.Equal(t, StatusPending, o.Status)
	assert.True(t, o.Total.Equal(decimal.RequireFromString("1448.50")), o.Total.String())
	assert.Equal(t, now, o.Timestamp.Time)

	// the order keeps its own copy of the lines
	items[0].Quantity = 9
	assert.Equal(t, 2, o.Items[0].Quantity)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "₱649.50", FormatAmount(decimal.RequireFromString("649.5")))
	assert.Equal(t, "₱100", FormatAmount(decimal.NewFromInt(100)))
}

func TestTestOrder(t *testing.T) {
	o := TestOrder(time.Now())
	assert.Equal(t, "TEST123", o.ID)
	assert.Equal(t, "#TEST001", o.OrderNumber)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(100)))
	assert.Len(t, o.Items, 1)
}
