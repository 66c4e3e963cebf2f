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
	"time"

	"k8s.io/utils/ptr"
)

const (
	// SampleOrderID is the ID the sample order is submitted with.
	SampleOrderID int64 = 1
	// SamplePetID is the pet the sample order refers to.
	SamplePetID int64 = 12345

	// shipDateLayout matches the millisecond precision ISO-8601 stamps
	// other clients of the store send.
	shipDateLayout = "2006-01-02T15:04:05.000Z07:00"
)

// OrderPayloadBuilder builds order payloads for testing.
type OrderPayloadBuilder struct {
	order Order
}

// NewOrderPayload creates a builder for the sample order, shipping now.
func NewOrderPayload() *OrderPayloadBuilder {
	return &OrderPayloadBuilder{
		order: Order{
			ID:       ptr.To(SampleOrderID),
			PetID:    ptr.To(SamplePetID),
			Quantity: ptr.To[int32](1),
			ShipDate: ptr.To(FormatShipDate(time.Now())),
			Status:   ptr.To(OrderStatusPlaced),
			Complete: ptr.To(false),
		},
	}
}

// NewRandomOrderPayload creates the sample order with a random ID so
// repeated runs do not collide.
func NewRandomOrderPayload() *OrderPayloadBuilder {
	return NewOrderPayload().WithID(RandomOrderID())
}

// WithID sets the order ID.
func (b *OrderPayloadBuilder) WithID(id int64) *OrderPayloadBuilder {
	b.order.ID = ptr.To(id)
	return b
}

// WithoutID omits the order ID so the server assigns one.
func (b *OrderPayloadBuilder) WithoutID() *OrderPayloadBuilder {
	b.order.ID = nil
	return b
}

// WithPetID sets the referenced pet.
func (b *OrderPayloadBuilder) WithPetID(petID int64) *OrderPayloadBuilder {
	b.order.PetID = ptr.To(petID)
	return b
}

// WithQuantity sets the quantity.
func (b *OrderPayloadBuilder) WithQuantity(quantity int32) *OrderPayloadBuilder {
	b.order.Quantity = ptr.To(quantity)
	return b
}

// WithShipDate sets the ship date.
func (b *OrderPayloadBuilder) WithShipDate(t time.Time) *OrderPayloadBuilder {
	b.order.ShipDate = ptr.To(FormatShipDate(t))
	return b
}

// WithStatus sets the order status.
func (b *OrderPayloadBuilder) WithStatus(status OrderStatus) *OrderPayloadBuilder {
	b.order.Status = ptr.To(status)
	return b
}

// WithComplete sets the completion flag.
func (b *OrderPayloadBuilder) WithComplete(complete bool) *OrderPayloadBuilder {
	b.order.Complete = ptr.To(complete)
	return b
}

// Build returns the completed order payload.
func (b *OrderPayloadBuilder) Build() Order {
	return b.order
}

// FormatShipDate renders t as a UTC ISO-8601 timestamp.
func FormatShipDate(t time.Time) string {
	return t.UTC().Format(shipDateLayout)
}
