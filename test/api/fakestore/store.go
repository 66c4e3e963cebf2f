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

// Package fakestore is an in-memory stand-in for the store resource of the
// pet store, so the suite can run without network access.
package fakestore

import (
	"encoding/json"
	"maps"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"

	"github.com/petstore-qa/store-api-tests/test/api"

	"k8s.io/utils/ptr"
)

// Store holds orders in memory.
type Store struct {
	lock      sync.Mutex
	orders    map[int64]api.Order
	inventory api.Inventory
	nextID    int64
}

// Option customises a Store.
type Option func(*Store)

// WithInventory replaces the seeded inventory.
func WithInventory(inventory api.Inventory) Option {
	return func(s *Store) {
		s.inventory = maps.Clone(inventory)
	}
}

// New returns an empty store with a seeded inventory.
func New(opts ...Option) *Store {
	s := &Store{
		orders: map[int64]api.Order{},
		inventory: api.Inventory{
			"available": 3,
			"pending":   1,
			"sold":      2,
		},
		nextID: 1000,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Handler returns the HTTP routes of the store, relative to the base URL.
func (s *Store) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/store/order", s.placeOrder)
	r.Get("/store/order/{orderId}", s.getOrder)
	r.Delete("/store/order/{orderId}", s.deleteOrder)
	r.Get("/store/inventory", s.getInventory)

	return r
}

// Len returns the number of stored orders.
func (s *Store) Len() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return len(s.orders)
}

func (s *Store) placeOrder(w http.ResponseWriter, r *http.Request) {
	var order api.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		writeJSON(w, http.StatusBadRequest, api.APIErrorBody{Code: http.StatusBadRequest, Type: "unknown", Message: "bad input"})
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if order.ID == nil || *order.ID == 0 {
		order.ID = ptr.To(s.allocateID())
	}

	if order.Complete == nil {
		order.Complete = ptr.To(false)
	}

	s.orders[*order.ID] = order

	writeJSON(w, http.StatusOK, order)
}

// allocateID returns the next ID not already taken by a client supplied one.
// The caller must hold the lock.
func (s *Store) allocateID() int64 {
	for {
		s.nextID++

		if _, ok := s.orders[s.nextID]; !ok {
			return s.nextID
		}
	}
}

func (s *Store) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := bindOrderID(w, r)
	if !ok {
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		writeJSON(w, http.StatusNotFound, api.APIErrorBody{Code: 1, Type: "error", Message: "Order not found"})
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (s *Store) deleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := bindOrderID(w, r)
	if !ok {
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.orders[orderID]; !ok {
		writeJSON(w, http.StatusNotFound, api.APIErrorBody{Code: http.StatusNotFound, Type: "unknown", Message: "Order Not Found"})
		return
	}

	delete(s.orders, orderID)

	writeJSON(w, http.StatusOK, api.APIErrorBody{Code: http.StatusOK, Type: "unknown", Message: strconv.FormatInt(orderID, 10)})
}

func (s *Store) getInventory(w http.ResponseWriter, _ *http.Request) {
	s.lock.Lock()
	defer s.lock.Unlock()

	writeJSON(w, http.StatusOK, s.inventory)
}

// bindOrderID decodes the path parameter the way generated servers do.
func bindOrderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var orderID int64

	err := runtime.BindStyledParameterWithOptions("simple", "orderId", chi.URLParam(r, "orderId"), &orderID, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, api.APIErrorBody{Code: http.StatusBadRequest, Type: "unknown", Message: "Invalid ID supplied"})
		return 0, false
	}

	return orderID, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", api.ContentTypeJSON)
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}
