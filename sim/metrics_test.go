package sim

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResults_Derived_Ratios(t *testing.T) {
	// GIVEN 10 customers on 2 servers over 20 time units
	r := &Results{
		Servers:          2,
		TotalCustomers:   10,
		CustomersServed:  8,
		CustomersWaited:  4,
		TotalWaitTime:    5,
		TotalServiceTime: 20,
		TotalIdleTime:    4,
		Clock:            20,
	}

	// WHEN the derived measures are computed
	d, err := r.Derived()
	require.NoError(t, err)

	// THEN each is the documented ratio
	assert.InDelta(t, 0.2, d.P0, 1e-12)
	assert.InDelta(t, 2.5, d.W, 1e-12)
	assert.InDelta(t, 0.5, d.Wq, 1e-12)
	assert.InDelta(t, 0.5, d.Rho, 1e-12)
	assert.InDelta(t, 0.4, d.PWait, 1e-12)
	assert.InDelta(t, 0.4, d.Throughput, 1e-12)
}

func TestResults_Derived_NoCustomers(t *testing.T) {
	_, err := (&Results{Clock: 5}).Derived()
	assert.True(t, errors.Is(err, ErrNoCustomers))
}

func TestResults_Derived_ZeroClock(t *testing.T) {
	_, err := (&Results{TotalCustomers: 1}).Derived()
	assert.True(t, errors.Is(err, ErrZeroClock))
}

func TestResults_Print_IncludesAccumulators(t *testing.T) {
	r := &Results{RunID: "abc", Servers: 1, TotalCustomers: 2, CustomersServed: 1, Clock: 4,
		TotalServiceTime: 1, TotalIdleTime: 3, WaitTimes: []float64{0, 0.5}}
	var buf bytes.Buffer
	r.Print(&buf)

	out := buf.String()
	assert.Contains(t, out, "Simulation Results")
	assert.Contains(t, out, "abc")
	assert.Contains(t, out, "P0 (all idle)        : 0.7500")
	assert.Contains(t, out, "Wait mean/std")
}

func TestResults_Print_NoCustomers_ExplainsMissingMeasures(t *testing.T) {
	var buf bytes.Buffer
	(&Results{}).Print(&buf)
	assert.Contains(t, buf.String(), "Derived measures unavailable")
}

func TestSummarize(t *testing.T) {
	// GIVEN waits 1..100 in reverse order
	data := make([]float64, 100)
	for i := range data {
		data[i] = float64(100 - i)
	}

	d := Summarize(data)

	assert.Equal(t, 100, d.Count)
	assert.InDelta(t, 50.5, d.Mean, 1e-12)
	assert.Equal(t, 50.0, d.P50)
	assert.Equal(t, 95.0, d.P95)
	assert.Equal(t, 99.0, d.P99)
	assert.Equal(t, 100.0, d.Max)
	assert.Greater(t, d.StdDev, 0.0)
	assert.Equal(t, 1.0, data[99], "input must not be reordered")
}

func TestSummarize_EmptyAndSingle(t *testing.T) {
	assert.Equal(t, Distribution{}, Summarize(nil))
	d := Summarize([]float64{2})
	assert.Equal(t, 1, d.Count)
	assert.Equal(t, 2.0, d.Mean)
	assert.Zero(t, d.StdDev)
}

func TestResults_SaveWaitTimes(t *testing.T) {
	r := &Results{WaitTimes: []float64{0, 1.5, 0.25}}
	path := filepath.Join(t.TempDir(), "waits.txt")

	require.NoError(t, r.SaveWaitTimes(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1.5", "0.25"}, strings.Fields(string(data)))
}

func TestResults_SaveWaitTimes_BadPath(t *testing.T) {
	r := &Results{WaitTimes: []float64{1}}
	err := r.SaveWaitTimes(filepath.Join(t.TempDir(), "missing", "waits.txt"))
	assert.Error(t, err)
}
