/*
Copyright 2025.

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
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/redhat-data-and-ai/addressbook/internal/httpapi/server"
	"github.com/redhat-data-and-ai/addressbook/pkg/cache"
	"github.com/redhat-data-and-ai/addressbook/pkg/config"
	"github.com/redhat-data-and-ai/addressbook/pkg/logger"
	"github.com/redhat-data-and-ai/addressbook/pkg/store"
	"github.com/redhat-data-and-ai/addressbook/pkg/telemetry"
	"github.com/redhat-data-and-ai/addressbook/pkg/tracing"
)

const meterName = "github.com/redhat-data-and-ai/addressbook"

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Error("addressbook exited with error")
		os.Exit(1)
	}
}

func run() error {
	appConfig, err := config.GetConfig()
	if err != nil {
		return err
	}

	logger.Init(appConfig.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetryConfig := appConfig.Telemetry
	if telemetryConfig.ServiceName == "" {
		telemetryConfig.ServiceName = appConfig.App.Name
	}
	if telemetryConfig.ServiceVersion == "" {
		telemetryConfig.ServiceVersion = appConfig.App.Version
	}
	if err := telemetry.Init(ctx, telemetryConfig); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Warn("failed to flush telemetry")
		}
	}()

	tracingConfig := appConfig.Tracing
	if tracingConfig.ServiceName == "" {
		tracingConfig.ServiceName = appConfig.App.Name
	}
	_, tracerCloser, err := tracing.Init(tracingConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := tracerCloser.Close(); err != nil {
			logrus.WithError(err).Warn("failed to flush traces")
		}
	}()

	meter := telemetry.GetMeter(meterName)
	recordMetrics, err := telemetry.NewRecordMetrics(meter)
	if err != nil {
		return err
	}

	cacheClient, err := cache.New(&appConfig.Cache)
	if err != nil {
		return err
	}
	// deferred after the tracer and telemetry, so it runs first once the server has stopped
	defer func() {
		if err := cache.Close(cacheClient); err != nil {
			logrus.WithError(err).Warn("failed to close cache")
		}
	}()

	dataStore := store.New(cacheClient, store.WithMetrics(recordMetrics))

	if _, err := telemetry.RegisterCollectionSizeGauge(meter, dataStore.User.Count); err != nil {
		return err
	}

	if appConfig.Records.Reseed {
		if _, err := dataStore.ResetSeeds(ctx); err != nil {
			return err
		}
	}

	if appConfig.Records.SeedFile != "" {
		if _, err := dataStore.SeedFromFile(ctx, appConfig.Records.SeedFile); err != nil {
			return err
		}
	}

	logrus.WithFields(logrus.Fields{
		"app":         appConfig.App.Name,
		"version":     appConfig.App.Version,
		"environment": appConfig.App.Environment,
		"cache":       appConfig.Cache.Driver,
	}).Info("starting addressbook")

	g, gctx := errgroup.WithContext(ctx)
	apiServer := server.NewAPIServer(appConfig, dataStore)
	g.Go(func() error {
		return apiServer.Start(gctx)
	})

	return g.Wait()
}
