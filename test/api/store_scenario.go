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

//go:generate mockgen -source=store_scenario.go -destination=mock/store_api.go -package=mock

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Step names of the store scenario.
const (
	StepCreateOrder  = "create-order"
	StepGetOrder     = "get-order"
	StepGetInventory = "get-inventory"
	StepDeleteOrder  = "delete-order"
)

var errNoOrderID = errors.New("no order ID was captured by " + StepCreateOrder)

// StoreAPI is the set of store operations the scenario calls.
type StoreAPI interface {
	PlaceOrder(ctx context.Context, order Order) (*Response, error)
	GetOrder(ctx context.Context, orderID int64) (*Response, error)
	GetInventory(ctx context.Context) (*Response, error)
	DeleteOrder(ctx context.Context, orderID int64) (*Response, error)
}

type storeSteps struct {
	client StoreAPI
	order  func() Order
}

// StoreOption customises the store scenario.
type StoreOption func(*storeSteps)

// WithOrder submits order instead of the sample order.
func WithOrder(order Order) StoreOption {
	return func(s *storeSteps) {
		s.order = func() Order { return order }
	}
}

// NewStoreScenario returns create, get, inventory and delete as a scenario.
// Get and delete depend on create; inventory is independent.
func NewStoreScenario(client StoreAPI, opts ...StoreOption) (*Scenario, error) {
	s := &storeSteps{
		client: client,
		order: func() Order {
			return NewOrderPayload().Build()
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return NewScenario(
		Step{Name: StepCreateOrder, Run: s.createOrder},
		Step{Name: StepGetOrder, DependsOn: []string{StepCreateOrder}, Run: s.getOrder},
		Step{Name: StepGetInventory, Run: s.getInventory},
		Step{Name: StepDeleteOrder, DependsOn: []string{StepCreateOrder}, Run: s.deleteOrder},
	)
}

func (s *storeSteps) createOrder(ctx context.Context, state *State) error {
	order := s.order()

	resp, err := s.client.PlaceOrder(ctx, order)
	if err != nil {
		return fmt.Errorf("placing order: %w", err)
	}

	if err := resp.ExpectStatus(http.StatusOK); err != nil {
		return err
	}

	var created Order
	if err := resp.DecodeJSON(&created); err != nil {
		return err
	}

	if order.Status != nil {
		if err := expectField("created order status", *order.Status, created.Status); err != nil {
			return err
		}
	}

	if order.PetID != nil {
		if err := expectField("created order petId", *order.PetID, created.PetID); err != nil {
			return err
		}
	}

	if created.ID == nil {
		return &AssertionError{Check: "created order id", Expected: "an id", Actual: "<missing>"}
	}

	var status OrderStatus
	if created.Status != nil {
		status = *created.Status
	}

	state.SetOrder(*created.ID, status)

	return nil
}

func (s *storeSteps) getOrder(ctx context.Context, state *State) error {
	orderID, ok := state.OrderID()
	if !ok {
		return errNoOrderID
	}

	resp, err := s.client.GetOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("getting order: %w", err)
	}

	if err := resp.ExpectStatus(http.StatusOK); err != nil {
		return err
	}

	var order Order
	if err := resp.DecodeJSON(&order); err != nil {
		return err
	}

	if err := expectField("fetched order id", orderID, order.ID); err != nil {
		return err
	}

	return expectField("fetched order status", state.OrderStatus(), order.Status)
}

func (s *storeSteps) getInventory(ctx context.Context, _ *State) error {
	resp, err := s.client.GetInventory(ctx)
	if err != nil {
		return fmt.Errorf("getting inventory: %w", err)
	}

	if err := resp.ExpectStatus(http.StatusOK); err != nil {
		return err
	}

	var inventory Inventory
	if err := resp.DecodeJSON(&inventory); err != nil {
		return err
	}

	if len(inventory) == 0 {
		return &AssertionError{Check: "inventory size", Expected: "> 0", Actual: 0}
	}

	for status, count := range inventory {
		if count < 0 {
			return &AssertionError{Check: fmt.Sprintf("inventory count for %q", status), Expected: ">= 0", Actual: count}
		}
	}

	return nil
}

func (s *storeSteps) deleteOrder(ctx context.Context, state *State) error {
	orderID, ok := state.OrderID()
	if !ok {
		return errNoOrderID
	}

	resp, err := s.client.DeleteOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}

	if err := resp.ExpectStatus(http.StatusOK); err != nil {
		return err
	}

	resp, err = s.client.GetOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("getting deleted order: %w", err)
	}

	return resp.ExpectStatus(http.StatusNotFound)
}

// expectField compares an optional response field with an expected value.
func expectField[T comparable](check string, expected T, actual *T) error {
	if actual == nil {
		return &AssertionError{Check: check, Expected: expected, Actual: "<missing>"}
	}

	if *actual != expected {
		return &AssertionError{Check: check, Expected: expected, Actual: *actual}
	}

	return nil
}
