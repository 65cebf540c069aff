package metrics

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncConcurrentNoLostUpdates(t *testing.T) {
	a := New()
	const n = 1000

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			a.Inc(OrdersPlaced)
		}()
	}
	wg.Wait()

	assert.True(t, a.Value(OrdersPlaced).Equal(decimal.NewFromInt(n)), "got %s", a.Value(OrdersPlaced))
}

func TestTrackDecimalIsExact(t *testing.T) {
	a := New()
	cent := decimal.RequireFromString("0.10")
	for i := 0; i < 1000; i++ {
		a.Track(OrdersTotalValue, cent)
	}
	assert.Equal(t, "100", a.Value(OrdersTotalValue).String())
}

func TestSnapshotZeroDenominators(t *testing.T) {
	s := New().Snapshot()
	assert.True(t, s[LoginSuccessRatePct].IsZero())
	assert.True(t, s[ConversionRatePct].IsZero())
	assert.Contains(t, s, UptimeSeconds)
	assert.Contains(t, s, UptimeHours)
}

func TestSnapshotRatesAndUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := start
	a := newAt(func() time.Time { return clock })

	a.Track(LoginSuccessful, decimal.NewFromInt(3))
	a.Inc(LoginFailed)
	a.Inc(OrdersPlaced)
	a.Track(ProductsViewed, decimal.NewFromInt(8))
	clock = start.Add(90 * time.Minute)

	s := a.Snapshot()
	assert.Equal(t, "75", s[LoginSuccessRatePct].String())
	assert.Equal(t, "12.5", s[ConversionRatePct].String())
	assert.Equal(t, "5400", s[UptimeSeconds].String())
	assert.Equal(t, "1.5", s[UptimeHours].String())
	assert.Equal(t, "3", s[LoginSuccessful].String())
}

func TestSnapshotIsACopy(t *testing.T) {
	a := New()
	a.Inc(ProductsViewed)
	s := a.Snapshot()
	a.Inc(ProductsViewed)
	assert.Equal(t, "1", s[ProductsViewed].String())
	assert.Equal(t, "2", a.Value(ProductsViewed).String())
}

func TestCollectExportsCounters(t *testing.T) {
	a := New()
	a.Inc(OrdersPlaced)
	a.Track(OrdersTotalValue, decimal.RequireFromString("100.50"))

	expected := `
# HELP storefront_orders_placed Storefront counter orders_placed.
# TYPE storefront_orders_placed counter
storefront_orders_placed 1
# HELP storefront_orders_total_value Storefront counter orders_total_value.
# TYPE storefront_orders_total_value counter
storefront_orders_total_value 100.5
`
	err := testutil.CollectAndCompare(a, strings.NewReader(expected),
		"storefront_orders_placed", "storefront_orders_total_value")
	require.NoError(t, err)
}

func TestReportLogsSnapshot(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	a := New()
	a.Inc(OrdersPlaced)
	report(a, log)

	assert.Contains(t, buf.String(), `"orders_placed":"1"`)
	assert.Contains(t, buf.String(), "metrics snapshot")
}

func TestStartReporterRejectsBadSpec(t *testing.T) {
	_, err := StartReporter("not a schedule", New(), logrus.New())
	assert.Error(t, err)
}
