/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const (
	p95 = 0.95

	// requestsPerIteration is the most requests one store scenario sends.
	requestsPerIteration = 5
)

var ErrInvalidLoadOptions = errors.New("invalid load options")

// LoadOptions controls a repeated run of the store scenario.
type LoadOptions struct {
	// Iterations is the number of times the scenario runs, one after another.
	Iterations int
	// Pause is slept between iterations.
	Pause time.Duration
	// P95Threshold is the highest acceptable 95th percentile step duration.
	P95Threshold time.Duration
	// ErrorRateThreshold is the highest acceptable fraction of non-passing steps.
	ErrorRateThreshold float64
	// RequestTimeout is the client timeout, used to bound the run length.
	RequestTimeout time.Duration
	// NewOrder builds the payload for each iteration.
	NewOrder func() Order
}

// DefaultLoadOptions mirrors the thresholds the store is expected to meet.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Iterations:         1,
		Pause:              time.Second,
		P95Threshold:       500 * time.Millisecond,
		ErrorRateThreshold: 0.1,
		RequestTimeout:     30 * time.Second,
		NewOrder: func() Order {
			return NewRandomOrderPayload().Build()
		},
	}
}

// MaxRunDuration is the longest the run can take if every request times out.
func (o LoadOptions) MaxRunDuration() time.Duration {
	return time.Duration(o.Iterations) * (o.Pause + requestsPerIteration*o.RequestTimeout)
}

// LoadReport summarises a repeated run.
type LoadReport struct {
	Iterations int
	StepRuns   int
	NotPassed  int
	ErrorRate  float64
	P95        map[string]time.Duration
	Breaches   []string
	// Last holds the results of the final iteration.
	Last []Result
}

// OK reports whether no threshold was breached.
func (r *LoadReport) OK() bool {
	return len(r.Breaches) == 0
}

// Write prints the report.
func (r *LoadReport) Write(w io.Writer) {
	fmt.Fprintf(w, "iterations=%d step_runs=%d not_passed=%d error_rate=%.3f\n", r.Iterations, r.StepRuns, r.NotPassed, r.ErrorRate)

	for _, step := range []string{StepCreateOrder, StepGetOrder, StepGetInventory, StepDeleteOrder} {
		if d, ok := r.P95[step]; ok {
			fmt.Fprintf(w, "p95 %-14s %s\n", step, d.Round(time.Millisecond))
		}
	}

	for _, breach := range r.Breaches {
		fmt.Fprintf(w, "THRESHOLD BREACHED: %s\n", breach)
	}
}

// RunLoad runs the store scenario opts.Iterations times sequentially and
// checks step latency and error rate against the thresholds.
func RunLoad(ctx context.Context, client StoreAPI, opts LoadOptions) (*LoadReport, error) {
	if opts.Iterations < 1 {
		return nil, fmt.Errorf("%w: iterations must be at least 1", ErrInvalidLoadOptions)
	}

	if opts.RequestTimeout <= 0 {
		return nil, fmt.Errorf("%w: request timeout must be positive", ErrInvalidLoadOptions)
	}

	if opts.NewOrder == nil {
		return nil, fmt.Errorf("%w: no order factory", ErrInvalidLoadOptions)
	}

	durations := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name:       "store_step_duration_seconds",
		Help:       "Duration of store scenario steps.",
		Objectives: map[float64]float64{p95: 0.005},
		MaxAge:     opts.MaxRunDuration(),
	}, []string{"step"})

	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_step_outcomes_total",
		Help: "Store scenario step outcomes.",
	}, []string{"outcome"})

	report := &LoadReport{
		P95: map[string]time.Duration{},
	}

	for i := range opts.Iterations {
		if i > 0 && opts.Pause > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(opts.Pause):
			}
		}

		scenario, err := NewStoreScenario(client, WithOrder(opts.NewOrder()))
		if err != nil {
			return nil, err
		}

		results := scenario.Run(ctx)

		for _, result := range results {
			outcomes.WithLabelValues(string(result.Outcome)).Inc()

			// Skipped steps never sent a request.
			if result.Outcome != Skipped {
				durations.WithLabelValues(result.Step).Observe(result.Duration.Seconds())
			}
		}

		report.Iterations++
		report.Last = results
	}

	var total float64

	for _, outcome := range []Outcome{Passed, Failed, Errored, Skipped} {
		count, err := counterValue(outcomes.WithLabelValues(string(outcome)))
		if err != nil {
			return nil, err
		}

		total += count

		if outcome != Passed {
			report.NotPassed += int(count)
		}
	}

	report.StepRuns = int(total)
	report.ErrorRate = float64(report.NotPassed) / total

	if report.ErrorRate >= opts.ErrorRateThreshold {
		report.Breaches = append(report.Breaches, fmt.Sprintf("error rate %.3f >= %.3f", report.ErrorRate, opts.ErrorRateThreshold))
	}

	for _, step := range []string{StepCreateOrder, StepGetOrder, StepGetInventory, StepDeleteOrder} {
		d, ok, err := quantile(durations.WithLabelValues(step), p95)
		if err != nil {
			return nil, err
		}

		if !ok {
			continue
		}

		report.P95[step] = d

		if d >= opts.P95Threshold {
			report.Breaches = append(report.Breaches, fmt.Sprintf("%s p95 %s >= %s", step, d.Round(time.Millisecond), opts.P95Threshold))
		}
	}

	return report, nil
}

func counterValue(counter prometheus.Counter) (float64, error) {
	var m dto.Metric
	if err := counter.Write(&m); err != nil {
		return 0, fmt.Errorf("reading counter: %w", err)
	}

	return m.GetCounter().GetValue(), nil
}

// quantile reads q from a summary, returning false when nothing was observed.
func quantile(observer prometheus.Observer, q float64) (time.Duration, bool, error) {
	metric, ok := observer.(prometheus.Metric)
	if !ok {
		return 0, false, fmt.Errorf("observer %T is not a metric", observer)
	}

	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		return 0, false, fmt.Errorf("reading summary: %w", err)
	}

	if m.GetSummary().GetSampleCount() == 0 {
		return 0, false, nil
	}

	for _, v := range m.GetSummary().GetQuantile() {
		if v.GetQuantile() == q {
			return time.Duration(v.GetValue() * float64(time.Second)), true, nil
		}
	}

	return 0, false, nil
}
