/*
Copyright 2024-2025 the Unikorn Authors.
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

// Package api provides integration test utilities for the pet store's
// store resource.
//
// # Client
//
// APIClient is a small hand-written client rather than a generated one. Every
// request goes through one place, so the suite gets the same behaviour on
// every call:
//   - the base URL and JSON content type from a single TestConfig
//   - verbatim logging of requests and responses to the Ginkgo writer
//   - W3C trace context headers for correlating with server logs
//   - optional checking of responses against the embedded OpenAPI document
//
// # Scenarios
//
// The store checks depend on each other: fetching and deleting an order need
// the ID returned when it was created. Rather than sharing a variable between
// test cases, the checks are Steps of a Scenario with declared predecessors.
// A step whose predecessor did not pass is skipped, and the created ID is
// handed from step to step in the scenario State.
//
// NewStoreScenario builds the four store steps; the Ginkgo suites run them one
// spec per step, and cmd/store-api-check runs them from the command line.
package api
