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

package api_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/petstore-qa/store-api-tests/test/api"
)

func pass(context.Context, *api.State) error {
	return nil
}

func failAssertion(context.Context, *api.State) error {
	return &api.AssertionError{Check: "status code", Expected: 200, Actual: 500}
}

func failTransport(context.Context, *api.State) error {
	return &api.TransportError{Method: "GET", Path: "/store/inventory", Err: errors.New("connection refused")}
}

// TestScenarioSkipsDependents ensures a failed step skips only its dependents.
func TestScenarioSkipsDependents(t *testing.T) {
	t.Parallel()

	var ran []string

	record := func(name string, fn api.StepFunc) api.StepFunc {
		return func(ctx context.Context, state *api.State) error {
			ran = append(ran, name)
			return fn(ctx, state)
		}
	}

	scenario, err := api.NewScenario(
		api.Step{Name: "a", Run: record("a", failAssertion)},
		api.Step{Name: "b", DependsOn: []string{"a"}, Run: record("b", pass)},
		api.Step{Name: "c", Run: record("c", pass)},
		api.Step{Name: "d", DependsOn: []string{"a"}, Run: record("d", pass)},
	)
	require.NoError(t, err)

	results := scenario.Run(t.Context())
	require.Len(t, results, 4)

	require.Equal(t, api.Failed, results[0].Outcome)
	require.Equal(t, api.Skipped, results[1].Outcome)
	require.ErrorIs(t, results[1].Err, api.ErrPredecessorFailed)
	require.Equal(t, api.Passed, results[2].Outcome)
	require.Equal(t, api.Skipped, results[3].Outcome)

	require.Equal(t, []string{"a", "c"}, ran)
	require.False(t, api.AllPassed(results))
}

// TestScenarioClassifiesErrors ensures transport errors are distinct from assertion failures.
func TestScenarioClassifiesErrors(t *testing.T) {
	t.Parallel()

	scenario, err := api.NewScenario(
		api.Step{Name: "transport", Run: failTransport},
		api.Step{Name: "assertion", Run: failAssertion},
		api.Step{Name: "ok", Run: pass},
	)
	require.NoError(t, err)

	require.Equal(t, api.Errored, scenario.RunStep(t.Context(), "transport").Outcome)
	require.Equal(t, api.Failed, scenario.RunStep(t.Context(), "assertion").Outcome)
	require.Equal(t, api.Passed, scenario.RunStep(t.Context(), "ok").Outcome)

	result, ok := scenario.Result("transport")
	require.True(t, ok)
	require.True(t, api.IsTransport(result.Err))
	require.False(t, api.IsAssertion(result.Err))
}

// TestScenarioRunStepBeforePredecessor ensures a predecessor that has not run counts as not passed.
func TestScenarioRunStepBeforePredecessor(t *testing.T) {
	t.Parallel()

	scenario, err := api.NewScenario(
		api.Step{Name: "a", Run: pass},
		api.Step{Name: "b", DependsOn: []string{"a"}, Run: pass},
	)
	require.NoError(t, err)

	require.Equal(t, api.Skipped, scenario.RunStep(t.Context(), "b").Outcome)
	require.Equal(t, api.Passed, scenario.RunStep(t.Context(), "a").Outcome)
	require.Equal(t, api.Passed, scenario.RunStep(t.Context(), "b").Outcome)

	result := scenario.RunStep(t.Context(), "missing")
	require.Equal(t, api.Errored, result.Outcome)
	require.ErrorIs(t, result.Err, api.ErrUnknownStep)
}

// TestScenarioRerunResetsPassed ensures a step that later fails no longer unlocks its dependents.
func TestScenarioRerunResetsPassed(t *testing.T) {
	t.Parallel()

	fail := false

	scenario, err := api.NewScenario(
		api.Step{Name: "a", Run: func(ctx context.Context, state *api.State) error {
			if fail {
				return failAssertion(ctx, state)
			}

			return nil
		}},
		api.Step{Name: "b", DependsOn: []string{"a"}, Run: pass},
	)
	require.NoError(t, err)

	require.Equal(t, api.Passed, scenario.RunStep(t.Context(), "a").Outcome)

	fail = true

	require.Equal(t, api.Failed, scenario.RunStep(t.Context(), "a").Outcome)
	require.Equal(t, api.Skipped, scenario.RunStep(t.Context(), "b").Outcome)
}

// TestNewScenarioValidation ensures malformed step graphs are rejected.
func TestNewScenarioValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		steps []api.Step
	}{
		{
			name:  "duplicate step",
			steps: []api.Step{{Name: "a", Run: pass}, {Name: "a", Run: pass}},
		},
		{
			name:  "unknown dependency",
			steps: []api.Step{{Name: "a", DependsOn: []string{"missing"}, Run: pass}},
		},
		{
			name:  "dependency declared later",
			steps: []api.Step{{Name: "a", DependsOn: []string{"b"}, Run: pass}, {Name: "b", Run: pass}},
		},
		{
			name:  "self dependency",
			steps: []api.Step{{Name: "a", DependsOn: []string{"a"}, Run: pass}},
		},
		{
			name:  "no run function",
			steps: []api.Step{{Name: "a"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := api.NewScenario(tc.steps...)
			require.ErrorIs(t, err, api.ErrInvalidScenario)
		})
	}
}

func TestWriteReport(t *testing.T) {
	t.Parallel()

	scenario, err := api.NewScenario(
		api.Step{Name: "a", Run: failAssertion},
		api.Step{Name: "b", DependsOn: []string{"a"}, Run: pass},
	)
	require.NoError(t, err)

	var buf bytes.Buffer

	api.WriteReport(&buf, scenario.Run(t.Context()))

	require.Contains(t, buf.String(), "failed   a")
	require.Contains(t, buf.String(), "status code: expected 200, got 500")
	require.Contains(t, buf.String(), "skipped  b")
}
