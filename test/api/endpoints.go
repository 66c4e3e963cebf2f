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
	"fmt"

	"github.com/oapi-codegen/runtime"
)

// Endpoints contains all API endpoint patterns.
type Endpoints struct{}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints() *Endpoints {
	return &Endpoints{}
}

// Store order endpoints.
func (e *Endpoints) CreateOrder() string {
	return "/store/order"
}

func (e *Endpoints) GetOrder(orderID int64) (string, error) {
	return e.order(orderID)
}

func (e *Endpoints) DeleteOrder(orderID int64) (string, error) {
	return e.order(orderID)
}

// Store inventory endpoints.
func (e *Endpoints) Inventory() string {
	return "/store/inventory"
}

// order styles the path parameter the same way generated clients do.
func (e *Endpoints) order(orderID int64) (string, error) {
	param, err := runtime.StyleParamWithLocation("simple", false, "orderId", runtime.ParamLocationPath, orderID)
	if err != nil {
		return "", fmt.Errorf("styling orderId path parameter: %w", err)
	}

	return "/store/order/" + param, nil
}
