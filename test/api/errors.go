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
	"errors"
	"fmt"
)

var (
	// ErrPredecessorFailed is wrapped by the error of a skipped step.
	ErrPredecessorFailed = errors.New("predecessor step did not pass")

	// ErrUnknownStep is returned when running a step that is not registered.
	ErrUnknownStep = errors.New("unknown step")

	// ErrInvalidScenario is returned when a scenario's step graph is malformed.
	ErrInvalidScenario = errors.New("invalid scenario")
)

// AssertionError reports a response that did not match an expectation.
type AssertionError struct {
	Check    string
	Expected any
	Actual   any
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %v, got %v", e.Check, e.Expected, e.Actual)
}

// TransportError reports a request that never produced a response.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsAssertion reports whether err contains an AssertionError.
func IsAssertion(err error) bool {
	var assertion *AssertionError

	return errors.As(err, &assertion)
}

// IsTransport reports whether err contains a TransportError.
func IsTransport(err error) bool {
	var transport *TransportError

	return errors.As(err, &transport)
}
