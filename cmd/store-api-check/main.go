/*
Copyright 2025 the Unikorn Authors.
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

package main

import (
	"context"
	goflag "flag"
	"io"
	"net/http/httptest"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/pflag"

	"github.com/petstore-qa/store-api-tests/test/api"
	"github.com/petstore-qa/store-api-tests/test/api/fakestore"

	cr "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// options are the flags that have no environment equivalent.
type options struct {
	iterations         int
	pause              time.Duration
	p95Threshold       time.Duration
	errorRateThreshold float64
	quiet              bool
}

// AddFlags registers the flags, defaulting those shared with the suite from config.
func (o *options) AddFlags(config *api.TestConfig, f *pflag.FlagSet) {
	defaults := api.DefaultLoadOptions()

	f.StringVar(&config.BaseURL, "base-url", config.BaseURL, "Base URL of the pet store API.")
	f.DurationVar(&config.RequestTimeout, "timeout", config.RequestTimeout, "Timeout of each request.")
	f.BoolVar(&config.UseFakeStore, "fake", config.UseFakeStore, "Run against an in-process fake store.")
	f.BoolVar(&config.ValidateResponses, "validate", config.ValidateResponses, "Validate responses against the OpenAPI document.")
	f.BoolVar(&config.TraceStdout, "trace", config.TraceStdout, "Print client spans.")
	f.BoolVar(&o.quiet, "quiet", false, "Do not log requests and responses.")
	f.IntVar(&o.iterations, "iterations", defaults.Iterations, "Number of sequential runs of the scenario.")
	f.DurationVar(&o.pause, "pause", defaults.Pause, "Pause between iterations.")
	f.DurationVar(&o.p95Threshold, "p95-threshold", defaults.P95Threshold, "Highest acceptable 95th percentile step duration.")
	f.Float64Var(&o.errorRateThreshold, "error-rate-threshold", defaults.ErrorRateThreshold, "Highest acceptable fraction of steps that do not pass.")
}

// parseFlags reads the configuration, applies flag overrides from args and
// only then validates the result.
func parseFlags(f *pflag.FlagSet, args []string) (*api.TestConfig, *options, error) {
	config := api.ReadTestConfig()

	o := &options{}
	o.AddFlags(config, f)

	if err := f.Parse(args); err != nil {
		return nil, nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, nil, err
	}

	return config, o, nil
}

func main() {
	zapOptions := zap.Options{
		Development: true,
	}

	zapOptions.BindFlags(goflag.CommandLine)
	pflag.CommandLine.AddGoFlagSet(goflag.CommandLine)

	config, o, err := parseFlags(pflag.CommandLine, os.Args[1:])

	log.SetLogger(zap.New(zap.UseFlagOptions(&zapOptions)))

	logger := log.Log.WithName("store-api-check")

	if err != nil {
		logger.Error(err, "invalid configuration")
		os.Exit(1)
	}

	ctx := cr.SetupSignalHandler()

	ok, err := run(ctx, logger, config, o)
	if err != nil {
		logger.Error(err, "store check failed to run")
		os.Exit(1)
	}

	if !ok {
		os.Exit(1)
	}
}

func run(ctx context.Context, logger logr.Logger, config *api.TestConfig, o *options) (bool, error) {
	if config.UseFakeStore {
		server := httptest.NewServer(fakestore.New().Handler())
		defer server.Close()

		config.BaseURL = server.URL
	}

	logger.Info("running store checks", "baseURL", config.BaseURL, "iterations", o.iterations)

	var logWriter io.Writer = os.Stderr

	if o.quiet {
		logWriter = io.Discard
	}

	provider, err := api.NewTracerProvider(config, os.Stderr)
	if err != nil {
		return false, err
	}

	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Error(err, "failed to flush spans")
		}
	}()

	clientOptions := []api.Option{
		api.WithLogWriter(logWriter),
		api.WithTracerProvider(provider),
	}

	if config.ValidateResponses {
		validator, err := api.NewSchemaValidator(ctx)
		if err != nil {
			return false, err
		}

		clientOptions = append(clientOptions, api.WithSchemaValidator(validator))
	}

	client := api.NewAPIClientWithConfig(config, clientOptions...)

	if o.iterations > 1 {
		loadOptions := api.DefaultLoadOptions()
		loadOptions.Iterations = o.iterations
		loadOptions.Pause = o.pause
		loadOptions.P95Threshold = o.p95Threshold
		loadOptions.ErrorRateThreshold = o.errorRateThreshold
		loadOptions.RequestTimeout = config.RequestTimeout

		report, err := api.RunLoad(ctx, client, loadOptions)
		if err != nil {
			return false, err
		}

		report.Write(os.Stdout)

		return report.OK(), nil
	}

	scenario, err := api.NewStoreScenario(client)
	if err != nil {
		return false, err
	}

	results := scenario.Run(ctx)

	api.WriteReport(os.Stdout, results)

	return api.AllPassed(results), nil
}
