// Package metrics keeps process-lifetime counters for the storefront and
// derives the rates shown on /api/metrics.  Counters are not persisted and
// reset on restart.
package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Counter names tracked by the handlers.
const (
	LoginSuccessful    = "login_successful"
	LoginFailed        = "login_failed"
	UsersRegistered    = "users_registered"
	ProductsViewed     = "products_viewed"
	ProductsAdded      = "products_added"
	ProductsUpdated    = "products_updated"
	ProductsDeleted    = "products_deleted"
	AddressesAdded     = "addresses_added"
	OrdersPlaced       = "orders_placed"
	OrdersTotalValue   = "orders_total_value"
	OrderStatusUpdated = "order_status_updated"
	APIRequests        = "api_requests"
	APIErrors          = "api_errors"
)

// Derived fields added by Snapshot.
const (
	UptimeSeconds       = "uptime_seconds"
	UptimeHours         = "uptime_hours"
	LoginSuccessRatePct = "login_success_rate_percent"
	ConversionRatePct   = "conversion_rate_percent"
)

var hundred = decimal.NewFromInt(100)

// Aggregator is a set of named decimal counters safe for concurrent use.
// One instance is created by the process root and shared by every handler.
type Aggregator struct {
	mu       sync.Mutex
	counters map[string]decimal.Decimal
	started  time.Time
	now      func() time.Time
}

// New returns an empty aggregator whose uptime starts now.
func New() *Aggregator {
	return newAt(time.Now)
}

func newAt(now func() time.Time) *Aggregator {
	return &Aggregator{
		counters: make(map[string]decimal.Decimal),
		started:  now(),
		now:      now,
	}
}

// Track adds delta to the named counter, creating it at zero if absent.
func (a *Aggregator) Track(name string, delta decimal.Decimal) {
	a.mu.Lock()
	a.counters[name] = a.counters[name].Add(delta)
	a.mu.Unlock()
}

// Inc adds one to the named counter.
func (a *Aggregator) Inc(name string) {
	a.Track(name, decimal.NewFromInt(1))
}

// Value returns the current value of a counter, zero when never tracked.
func (a *Aggregator) Value(name string) decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counters[name]
}

// Names returns the tracked counter names in lexical order.
func (a *Aggregator) Names() []string {
	a.mu.Lock()
	names := make([]string, 0, len(a.counters))
	for n := range a.counters {
		names = append(names, n)
	}
	a.mu.Unlock()
	sort.Strings(names)
	return names
}

// Uptime is the time elapsed since the aggregator was created.
func (a *Aggregator) Uptime() time.Duration {
	return a.now().Sub(a.started)
}

// Snapshot copies all counters and adds uptime and the two derived rates.
// Ratios with a zero denominator are reported as 0.
func (a *Aggregator) Snapshot() map[string]decimal.Decimal {
	a.mu.Lock()
	out := make(map[string]decimal.Decimal, len(a.counters)+4)
	for k, v := range a.counters {
		out[k] = v
	}
	a.mu.Unlock()

	up := decimal.NewFromFloat(a.Uptime().Seconds())
	out[UptimeSeconds] = up.Round(0)
	out[UptimeHours] = up.Div(decimal.NewFromInt(3600)).Round(2)

	ok, failed := out[LoginSuccessful], out[LoginFailed]
	out[LoginSuccessRatePct] = percent(ok, ok.Add(failed))
	out[ConversionRatePct] = percent(out[OrdersPlaced], out[ProductsViewed])
	return out
}

func percent(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den).Mul(hundred).Round(2)
}
