package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/imrishuroy/go-restaurant-orderboard/internal/aws"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/idempotency"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/orders"
)

// Processor turns new-order messages into kitchen tickets. SQS may deliver a
// message more than once; each order prints at most one ticket.
type Processor struct {
	orderStore *orders.Store
	idempStore *idempotency.Store
	out        io.Writer
}

// NewProcessor creates a ticket processor writing tickets to out.
func NewProcessor(store *orders.Store, idemp *idempotency.Store, out io.Writer) *Processor {
	return &Processor{
		orderStore: store,
		idempStore: idemp,
		out:        out,
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			log.Printf("[worker] error: %v", err)
			return err
		}
	}
	return nil
}

func ticketKey(orderID string) string { return "ticket:" + orderID }

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg aws.NewOrderMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	log.Printf("[worker] received order=%s number=%s corr=%s", msg.OrderID, msg.OrderNumber, msg.CorrelationID)

	order, err := p.orderStore.Get(ctx, msg.OrderID)
	if err != nil {
		return fmt.Errorf("failed to fetch order: %w", err)
	}
	if order == nil {
		// deleted from the board before the message arrived
		log.Printf("[worker] order=%s no longer on the board, skipping", msg.OrderID)
		return nil
	}
	if order.Status != orders.StatusPending {
		log.Printf("[worker] order=%s already %s, no ticket", msg.OrderID, order.Status)
		return nil
	}

	created, err := p.idempStore.CreateIfNotExists(ctx, ticketKey(order.ID))
	if err != nil {
		return fmt.Errorf("claim ticket: %w", err)
	}
	if !created {
		rec, err := p.idempStore.Get(ctx, ticketKey(order.ID))
		if err != nil {
			return fmt.Errorf("read ticket claim: %w", err)
		}
		if rec != nil && rec.Status == idempotency.StatusDone {
			log.Printf("[worker] duplicate message for order=%s", order.ID)
			return nil
		}
		if rec != nil && rec.Status == idempotency.StatusInProgress {
			return fmt.Errorf("ticket for order=%s is being printed elsewhere", order.ID)
		}
		// a previous attempt failed and still holds the key; print anyway
	}

	if _, err := io.WriteString(p.out, Ticket(*order)); err != nil {
		_ = p.idempStore.MarkFailed(ctx, ticketKey(order.ID), err.Error())
		return fmt.Errorf("print ticket: %w", err)
	}
	if err := p.idempStore.MarkDone(ctx, ticketKey(order.ID), order.ID, "", http.StatusOK); err != nil {
		return fmt.Errorf("failed to update idempotency: %w", err)
	}
	log.Printf("[worker] ticket printed order=%s", order.ID)
	return nil
}

// Ticket renders an order for the kitchen.
func Ticket(o orders.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", o.OrderNumber, strings.ToUpper(string(o.OrderType)))
	fmt.Fprintf(&b, "%s", o.Customer.Name)
	switch {
	case o.Customer.TableNumber != "":
		fmt.Fprintf(&b, " / table %s", o.Customer.TableNumber)
	case o.Customer.Phone != "":
		fmt.Fprintf(&b, " / %s", o.Customer.Phone)
	}
	b.WriteString("\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "%3d x %s\n", it.Quantity, it.Name)
	}
	fmt.Fprintf(&b, "total %s (%s)\n", orders.FormatAmount(o.Total), o.PaymentMethod)
	return b.String()
}
