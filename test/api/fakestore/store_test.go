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

package fakestore_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/petstore-qa/store-api-tests/test/api"
	"github.com/petstore-qa/store-api-tests/test/api/fakestore"
)

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequestWithContext(t.Context(), method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	require.Equal(t, api.ContentTypeJSON, rec.Header().Get("Content-Type"))

	return rec
}

func TestOrderLifecycle(t *testing.T) {
	t.Parallel()

	store := fakestore.New()
	h := store.Handler()

	rec := do(t, h, http.MethodPost, "/store/order", `{"id":5,"petId":12345,"quantity":1,"status":"placed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"id":5,"petId":12345,"quantity":1,"status":"placed","complete":false}`, rec.Body.String())
	require.Equal(t, 1, store.Len())

	rec = do(t, h, http.MethodGet, "/store/order/5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodDelete, "/store/order/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"code":200,"type":"unknown","message":"5"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/store/order/5", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"code":1,"type":"error","message":"Order not found"}`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/store/order/5", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Zero(t, store.Len())
}

// TestAssignsID ensures orders without an ID are given one.
func TestAssignsID(t *testing.T) {
	t.Parallel()

	h := fakestore.New().Handler()

	rec := do(t, h, http.MethodPost, "/store/order", `{"petId":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var order api.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	require.NotNil(t, order.ID)
	require.NotZero(t, *order.ID)
}

func TestBadInput(t *testing.T) {
	t.Parallel()

	h := fakestore.New().Handler()

	rec := do(t, h, http.MethodPost, "/store/order", `{"id":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/store/order/abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInventory(t *testing.T) {
	t.Parallel()

	rec := do(t, fakestore.New().Handler(), http.MethodGet, "/store/inventory", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"available":3,"pending":1,"sold":2}`, rec.Body.String())

	rec = do(t, fakestore.New(fakestore.WithInventory(api.Inventory{"sold": 9})).Handler(), http.MethodGet, "/store/inventory", "")
	require.JSONEq(t, `{"sold":9}`, rec.Body.String())
}

// TestAssignedIDSkipsClientIDs ensures an assigned ID never replaces an order
// the client created with an explicit ID.
func TestAssignedIDSkipsClientIDs(t *testing.T) {
	t.Parallel()

	store := fakestore.New()
	h := store.Handler()

	for _, id := range []int{1001, 1002} {
		rec := do(t, h, http.MethodPost, "/store/order", fmt.Sprintf(`{"id":%d,"petId":1}`, id))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := do(t, h, http.MethodPost, "/store/order", `{"petId":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var order api.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	require.Equal(t, int64(1003), *order.ID)
	require.Equal(t, 3, store.Len())

	rec = do(t, h, http.MethodGet, "/store/order/1001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	require.Equal(t, int64(1), *order.PetID)
}
