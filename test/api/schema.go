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
	_ "embed"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
)

//go:embed openapi/store.yaml
var storeSpec []byte

// SchemaValidator checks responses against the store OpenAPI document.
type SchemaValidator struct {
	router routers.Router
}

// NewSchemaValidator loads and validates the embedded store document.
func NewSchemaValidator(ctx context.Context) (*SchemaValidator, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(storeSpec)
	if err != nil {
		return nil, fmt.Errorf("loading store openapi document: %w", err)
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validating store openapi document: %w", err)
	}

	// The document declares no servers so routes match on the path
	// relative to the configured base URL.
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("creating openapi router: %w", err)
	}

	return &SchemaValidator{
		router: router,
	}, nil
}

// ValidateResponse returns an error if the response is not described by the document.
func (v *SchemaValidator) ValidateResponse(ctx context.Context, resp *Response) error {
	req, err := http.NewRequestWithContext(ctx, resp.Method, resp.Path, http.NoBody)
	if err != nil {
		return fmt.Errorf("building route lookup request: %w", err)
	}

	route, pathParams, err := v.router.FindRoute(req)
	if err != nil {
		return fmt.Errorf("finding route for %s %s: %w", resp.Method, resp.Path, err)
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
		},
		Status: resp.StatusCode,
		Header: resp.Header,
		Options: &openapi3filter.Options{
			IncludeResponseStatus: true,
		},
	}

	input.SetBodyBytes(resp.Body)

	return openapi3filter.ValidateResponse(ctx, input)
}
