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

package api

import (
	"sync"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

// maxRandomOrderID bounds random IDs to the range the public store accepts.
const maxRandomOrderID = 100000

var (
	fakerLock sync.Mutex
	// A zero seed gives a randomly seeded faker.
	faker = gofakeit.New(0)
)

// NewRunID identifies one run of the suite in trace state headers.
func NewRunID() string {
	return uuid.NewString()
}

// RandomOrderID returns an order ID in [1, 100000].
func RandomOrderID() int64 {
	fakerLock.Lock()
	defer fakerLock.Unlock()

	return int64(faker.Number(1, maxRandomOrderID))
}
