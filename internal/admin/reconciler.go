// Package admin holds the dashboard side of the board: a reconciler that polls
// the shared store, raises a notification when orders arrive, and writes admin
// mutations straight through.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/imrishuroy/go-restaurant-orderboard/internal/orders"
)

const (
	DefaultInterval       = 5 * time.Second
	DefaultNotifyDuration = 5 * time.Second

	newOrderMessage = "New order received! Check pending orders."
)

// ErrNotConfirmed is returned by Delete when the confirmation was refused or missing.
var ErrNotConfirmed = errors.New("delete not confirmed")

// Notifier receives orders the reconciler sees for the first time.
type Notifier interface {
	NotifyNewOrders(ctx context.Context, newOrders []orders.Order) error
}

// StatsSink receives the per-status counts after every reconcile.
type StatsSink interface {
	PublishStats(ctx context.Context, stats Stats) error
}

// Confirmer decides whether a delete goes ahead.
type Confirmer interface {
	Confirm(o orders.Order) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(o orders.Order) bool

func (f ConfirmFunc) Confirm(o orders.Order) bool { return f(o) }

// Options configures a Reconciler. Zero values take the defaults.
type Options struct {
	Interval       time.Duration
	NotifyDuration time.Duration
	Policy         orders.Policy
	Notifier       Notifier
	StatsSink      StatsSink
}

// Notification is the transient "new order" banner.
type Notification struct {
	Active       bool      `json:"active"`
	Message      string    `json:"message,omitempty"`
	OrderNumbers []string  `json:"order_numbers,omitempty"`
	RaisedAt     time.Time `json:"raised_at,omitempty"`
}

// Stats is the count of orders per status plus the overall total.
type Stats struct {
	ByStatus map[orders.Status]int `json:"by_status"`
	Total    int                   `json:"total"`
}

// Counts flattens ByStatus for metric publishers.
func (s Stats) Counts() map[string]int {
	out := make(map[string]int, len(s.ByStatus))
	for st, n := range s.ByStatus {
		out[string(st)] = n
	}
	return out
}

// RefreshResult describes what an explicit refresh found.
type RefreshResult struct {
	Added        int `json:"added"`
	AddedPending int `json:"added_pending"`
	Total        int `json:"total"`
}

// Reconciler keeps an in-memory view of the store in sync with other writers.
type Reconciler struct {
	store *orders.Store
	opts  Options

	mu           sync.Mutex
	orders       []orders.Order
	fingerprints []string
	known        map[string]struct{}
	version      int64 // blob version the view was read or written at
	loaded       bool
	syncedAt     time.Time
	notification Notification
	clearTimer   *time.Timer
	generation   uint64

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	nowFunc func() time.Time
}

// NewReconciler creates a Reconciler over store.
func NewReconciler(store *orders.Store, opts Options) *Reconciler {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.NotifyDuration <= 0 {
		opts.NotifyDuration = DefaultNotifyDuration
	}
	return &Reconciler{
		store:   store,
		opts:    opts,
		orders:  []orders.Order{},
		known:   map[string]struct{}{},
		nowFunc: time.Now,
	}
}

// Run loads the store once, then reconciles on every tick until ctx is done.
// The first load is the baseline and raises no notification.
func (r *Reconciler) Run(ctx context.Context) {
	if _, err := r.reconcile(ctx); err != nil {
		log.Printf("[reconciler] initial load failed: %v", err)
	}

	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.reconcile(ctx); err != nil {
				log.Printf("[reconciler] poll failed, keeping previous view: %v", err)
			}
		}
	}
}

// Start runs the poll loop in the background. Calling Start twice is a no-op.
func (r *Reconciler) Start(ctx context.Context) {
	r.runMu.Lock()
	defer r.runMu.Unlock()
	if r.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	go func() {
		defer close(done)
		r.Run(ctx)
	}()
}

// Stop cancels the poll loop and any pending notification clear, and waits for the loop to exit.
func (r *Reconciler) Stop() {
	r.runMu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.runMu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	r.mu.Lock()
	if r.clearTimer != nil {
		r.clearTimer.Stop()
		r.clearTimer = nil
	}
	r.mu.Unlock()
}

// Refresh re-reads the store immediately.
func (r *Reconciler) Refresh(ctx context.Context) (RefreshResult, error) {
	added, err := r.reconcile(ctx)
	if err != nil {
		return RefreshResult{}, err
	}
	res := RefreshResult{Added: len(added)}
	for _, o := range added {
		if o.Status == orders.StatusPending {
			res.AddedPending++
		}
	}
	r.mu.Lock()
	res.Total = len(r.orders)
	r.mu.Unlock()
	log.Printf("[reconciler] refreshed: %d orders (%d new, %d new pending)", res.Total, res.Added, res.AddedPending)
	return res, nil
}

// Sync reconciles when the view was never loaded or is older than one poll
// interval. Readers call it where no poll loop runs.
func (r *Reconciler) Sync(ctx context.Context) error {
	r.mu.Lock()
	fresh := r.loaded && r.nowFunc().Sub(r.syncedAt) < r.opts.Interval
	r.mu.Unlock()
	if fresh {
		return nil
	}
	_, err := r.reconcile(ctx)
	return err
}

// reconcile reads the store and applies it to the view.
// It returns the orders whose ids were not in the previous view.
func (r *Reconciler) reconcile(ctx context.Context) ([]orders.Order, error) {
	current, version, err := r.store.LoadVersion(ctx)
	if err != nil {
		return nil, err
	}
	return r.apply(ctx, current, version, "")
}

// apply replaces the view with a collection read or written at version. A
// collection older than the view is dropped, so a slow poll never undoes a newer
// write. Ids not seen before are announced, except ownID, which the admin just
// created; the first load is the baseline and announces nothing.
func (r *Reconciler) apply(ctx context.Context, current []orders.Order, version int64, ownID string) ([]orders.Order, error) {
	fps, err := fingerprint(current)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.loaded && version < r.version {
		r.mu.Unlock()
		log.Printf("[reconciler] dropping stale read at version %d (view at %d)", version, r.version)
		return nil, nil
	}
	var added, announce []orders.Order
	for _, o := range current {
		if _, ok := r.known[o.ID]; ok {
			continue
		}
		added = append(added, o)
		if o.ID != ownID {
			announce = append(announce, o)
		}
	}
	baseline := !r.loaded
	if baseline || !slices.Equal(fps, r.fingerprints) {
		r.replace(current, fps)
	}
	r.version = version
	r.syncedAt = r.nowFunc()
	if baseline {
		announce = nil
	}
	if len(announce) > 0 {
		r.raise(announce)
	}
	stats := r.stats()
	r.mu.Unlock()

	if len(announce) > 0 && r.opts.Notifier != nil {
		if err := r.opts.Notifier.NotifyNewOrders(ctx, announce); err != nil {
			log.Printf("[reconciler] notify %d new orders: %v", len(announce), err)
		}
	}
	if r.opts.StatsSink != nil {
		if err := r.opts.StatsSink.PublishStats(ctx, stats); err != nil {
			log.Printf("[reconciler] publish stats: %v", err)
		}
	}
	return added, nil
}

// replace must be called with r.mu held.
func (r *Reconciler) replace(current []orders.Order, fps []string) {
	r.orders = current
	r.fingerprints = fps
	r.known = make(map[string]struct{}, len(current))
	for _, o := range current {
		r.known[o.ID] = struct{}{}
	}
	r.loaded = true
}

// raise must be called with r.mu held.
func (r *Reconciler) raise(added []orders.Order) {
	numbers := make([]string, 0, len(added))
	for _, o := range added {
		numbers = append(numbers, o.OrderNumber)
	}
	r.generation++
	gen := r.generation
	r.notification = Notification{
		Active:       true,
		Message:      newOrderMessage,
		OrderNumbers: numbers,
		RaisedAt:     r.nowFunc(),
	}
	if r.clearTimer != nil {
		r.clearTimer.Stop()
	}
	r.clearTimer = time.AfterFunc(r.opts.NotifyDuration, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		// a newer notification owns the banner
		if r.generation == gen {
			r.notification = Notification{}
			r.clearTimer = nil
		}
	})
	log.Printf("[reconciler] %d new order(s): %v", len(added), numbers)
}

// UpdateStatus writes the new status through to the store and refreshes the view.
func (r *Reconciler) UpdateStatus(ctx context.Context, orderID string, status orders.Status) error {
	stored, version, err := r.store.MutateVersion(ctx, orders.UpdateStatusFunc(orderID, status, r.opts.Policy))
	if err != nil {
		return err
	}
	log.Printf("[reconciler] order %s -> %s", orderID, status)
	_, err = r.apply(ctx, stored, version, "")
	return err
}

// Delete removes an order after confirmer agrees. A nil confirmer never agrees.
func (r *Reconciler) Delete(ctx context.Context, orderID string, confirmer Confirmer) error {
	o, err := r.store.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if o == nil {
		return fmt.Errorf("%w: %s", orders.ErrNotFound, orderID)
	}
	if confirmer == nil || !confirmer.Confirm(*o) {
		return ErrNotConfirmed
	}
	stored, version, err := r.store.MutateVersion(ctx, orders.DeleteFunc(orderID))
	if err != nil {
		return err
	}
	log.Printf("[reconciler] order %s deleted", orderID)
	_, err = r.apply(ctx, stored, version, "")
	return err
}

// AddTestOrder appends the synthetic test order and refreshes the view.
func (r *Reconciler) AddTestOrder(ctx context.Context) (orders.Order, error) {
	o := orders.TestOrder(r.nowFunc())
	stored, version, err := r.store.MutateVersion(ctx, orders.AppendFunc(o))
	if err != nil {
		return orders.Order{}, err
	}
	_, err = r.apply(ctx, stored, version, o.ID)
	return o, err
}

// Orders returns a copy of the current view.
func (r *Reconciler) Orders() []orders.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]orders.Order(nil), r.orders...)
}

// Filter returns orders matching status and orderType; empty values match everything.
func (r *Reconciler) Filter(status orders.Status, orderType orders.OrderType) []orders.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []orders.Order{}
	for _, o := range r.orders {
		if status != "" && o.Status != status {
			continue
		}
		if orderType != "" && o.OrderType != orderType {
			continue
		}
		out = append(out, o)
	}
	return out
}

// Stats counts the current view by status.
func (r *Reconciler) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats()
}

func (r *Reconciler) stats() Stats {
	s := Stats{ByStatus: map[orders.Status]int{}, Total: len(r.orders)}
	for _, st := range orders.Statuses() {
		s.ByStatus[st] = 0
	}
	for _, o := range r.orders {
		s.ByStatus[o.Status]++
	}
	return s
}

// Notification returns the current banner state.
func (r *Reconciler) Notification() Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notification
}

func fingerprint(list []orders.Order) ([]string, error) {
	fps := make([]string, len(list))
	for i, o := range list {
		b, err := json.Marshal(o)
		if err != nil {
			return nil, fmt.Errorf("fingerprint order %s: %w", o.ID, err)
		}
		fps[i] = string(b)
	}
	return fps, nil
}
