// sim/metrics_utils.go
package sim

import (
	"bufio"
	"fmt"
	"os"
	"slices"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// Distribution summarizes a sample of per-customer times.
type Distribution struct {
	Count  int
	Mean   float64
	StdDev float64
	P50    float64
	P95    float64
	P99    float64
	Max    float64
}

// Summarize computes the distribution of data. The input is not modified.
// An empty sample yields the zero Distribution.
func Summarize(data []float64) Distribution {
	if len(data) == 0 {
		return Distribution{}
	}
	sorted := slices.Clone(data)
	slices.Sort(sorted)

	d := Distribution{
		Count: len(sorted),
		Mean:  stat.Mean(sorted, nil),
		P50:   stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P95:   stat.Quantile(0.95, stat.Empirical, sorted, nil),
		P99:   stat.Quantile(0.99, stat.Empirical, sorted, nil),
		Max:   sorted[len(sorted)-1],
	}
	if len(sorted) > 1 {
		d.StdDev = stat.StdDev(sorted, nil)
	}
	return d
}

// WaitSummary summarizes the per-customer wait times.
func (r *Results) WaitSummary() Distribution {
	return Summarize(r.WaitTimes)
}

// SaveWaitTimes writes one wait time per line to fileName.
func (r *Results) SaveWaitTimes(fileName string) (err error) {
	file, err := os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", fileName, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", fileName, closeErr)
		}
	}()

	writer := bufio.NewWriter(file)
	for _, w := range r.WaitTimes {
		if _, err := fmt.Fprintf(writer, "%g\n", w); err != nil {
			return fmt.Errorf("writing %s: %w", fileName, err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", fileName, err)
	}

	logrus.Debugf("Wrote %d wait times to '%s'", len(r.WaitTimes), fileName)
	return nil
}
