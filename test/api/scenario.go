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
	"fmt"
	"io"
	"time"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Outcome is how a step ended.
type Outcome string

const (
	// Passed means every assertion held.
	Passed Outcome = "passed"
	// Failed means a response did not match an expectation.
	Failed Outcome = "failed"
	// Errored means the step could not complete, e.g. the host was unreachable.
	Errored Outcome = "errored"
	// Skipped means a declared predecessor did not pass.
	Skipped Outcome = "skipped"
)

// State carries values produced by one step to the steps that depend on it.
type State struct {
	orderID     *int64
	orderStatus OrderStatus
}

// SetOrder records the order created by the scenario.
func (s *State) SetOrder(id int64, status OrderStatus) {
	s.orderID = &id
	s.orderStatus = status
}

// OrderID returns the captured order ID, if any.
func (s *State) OrderID() (int64, bool) {
	if s.orderID == nil {
		return 0, false
	}

	return *s.orderID, true
}

// OrderStatus returns the status the captured order was created with.
func (s *State) OrderStatus() OrderStatus {
	return s.orderStatus
}

// StepFunc performs one request and its assertions.
type StepFunc func(ctx context.Context, state *State) error

// Step is a named transition with the steps that must pass before it runs.
type Step struct {
	Name      string
	DependsOn []string
	Run       StepFunc
}

// Result is the outcome of running a step.
type Result struct {
	Step     string
	Outcome  Outcome
	Err      error
	Duration time.Duration
}

// Scenario is an ordered list of steps sharing one State.
type Scenario struct {
	steps   []Step
	index   map[string]int
	passed  sets.Set[string]
	results map[string]Result
	state   *State
}

// NewScenario checks the step graph.  A step may only depend on steps
// declared before it, so declaration order is a valid execution order.
func NewScenario(steps ...Step) (*Scenario, error) {
	s := &Scenario{
		steps:   steps,
		index:   make(map[string]int, len(steps)),
		passed:  sets.New[string](),
		results: make(map[string]Result, len(steps)),
		state:   &State{},
	}

	for i, step := range steps {
		if step.Run == nil {
			return nil, fmt.Errorf("%w: step %q has no run function", ErrInvalidScenario, step.Name)
		}

		if _, ok := s.index[step.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate step %q", ErrInvalidScenario, step.Name)
		}

		for _, dep := range step.DependsOn {
			if _, ok := s.index[dep]; !ok {
				return nil, fmt.Errorf("%w: step %q depends on %q which is not declared before it", ErrInvalidScenario, step.Name, dep)
			}
		}

		s.index[step.Name] = i
	}

	return s, nil
}

// Steps returns the step names in execution order.
func (s *Scenario) Steps() []string {
	names := make([]string, len(s.steps))

	for i, step := range s.steps {
		names[i] = step.Name
	}

	return names
}

// State returns the state shared by the steps.
func (s *Scenario) State() *State {
	return s.state
}

// Result returns the last result recorded for a step.
func (s *Scenario) Result(name string) (Result, bool) {
	result, ok := s.results[name]

	return result, ok
}

// RunStep runs a single step.  The step is skipped unless every predecessor
// has already run and passed.
func (s *Scenario) RunStep(ctx context.Context, name string) Result {
	i, ok := s.index[name]
	if !ok {
		return Result{Step: name, Outcome: Errored, Err: fmt.Errorf("%w: %q", ErrUnknownStep, name)}
	}

	step := s.steps[i]

	s.passed.Delete(name)

	for _, dep := range step.DependsOn {
		if !s.passed.Has(dep) {
			result := Result{Step: name, Outcome: Skipped, Err: fmt.Errorf("%w: %s", ErrPredecessorFailed, dep)}
			s.results[name] = result

			return result
		}
	}

	start := time.Now()
	err := step.Run(ctx, s.state)

	result := Result{
		Step:     name,
		Outcome:  classify(err),
		Err:      err,
		Duration: time.Since(start),
	}

	if result.Outcome == Passed {
		s.passed.Insert(name)
	}

	s.results[name] = result

	return result
}

// Run runs every step in declaration order.
func (s *Scenario) Run(ctx context.Context) []Result {
	results := make([]Result, 0, len(s.steps))

	for _, step := range s.steps {
		results = append(results, s.RunStep(ctx, step.Name))
	}

	return results
}

func classify(err error) Outcome {
	switch {
	case err == nil:
		return Passed
	case IsAssertion(err):
		return Failed
	default:
		return Errored
	}
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if result.Outcome != Passed {
			return false
		}
	}

	return true
}

// WriteReport prints one line per step.
func WriteReport(w io.Writer, results []Result) {
	for _, result := range results {
		if result.Err != nil {
			fmt.Fprintf(w, "%-8s %-14s %s: %v\n", result.Outcome, result.Step, result.Duration.Round(time.Millisecond), result.Err)
			continue
		}

		fmt.Fprintf(w, "%-8s %-14s %s\n", result.Outcome, result.Step, result.Duration.Round(time.Millisecond))
	}
}
