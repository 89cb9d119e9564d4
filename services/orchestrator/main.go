// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/AleutianAI/CommandCenter/pkg/logging"
	"github.com/AleutianAI/CommandCenter/services/forecaster"
	"github.com/AleutianAI/CommandCenter/services/intelligence"
	"github.com/AleutianAI/CommandCenter/services/llm"
	"github.com/AleutianAI/CommandCenter/services/orchestrator/middleware"
	"github.com/AleutianAI/CommandCenter/services/orchestrator/observability"
	"github.com/AleutianAI/CommandCenter/services/orchestrator/routes"
	"github.com/AleutianAI/CommandCenter/services/orchestrator/store"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		otelEndpoint = "commandcenter-otel-collector:4317"
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("commandcenter-orchestrator")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

func newLLMClient() (llm.LLMClient, error) {
	switch os.Getenv("LLM_BACKEND_TYPE") {
	case "openai":
		slog.Info("Using OpenAI reasoning backend")
		return llm.NewOpenAIClient()
	case "claude", "anthropic", "":
		slog.Info("Using Anthropic (Claude) reasoning backend")
		return llm.NewAnthropicClient()
	default:
		slog.Warn("LLM_BACKEND_TYPE not recognized, defaulting to anthropic")
		return llm.NewAnthropicClient()
	}
}

func main() {
	port := os.Getenv("ORCHESTRATOR_PORT")
	if port == "" {
		port = "12210"
	}

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(os.Getenv("LOG_LEVEL")),
		LogDir:  os.Getenv("COMMANDCENTER_LOG_DIR"),
		Service: "orchestrator",
		JSON:    true,
	})
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	observability.InitMetrics()

	dataDir := os.Getenv("COMMANDCENTER_DATA_DIR")
	if dataDir == "" {
		dataDir = "/data/commandcenter"
	}
	graph, err := store.Open(store.DefaultConfig(dataDir))
	if err != nil {
		log.Fatalf("FATAL: Could not open the graph store at %s: %v", dataDir, err)
	}
	defer func() {
		if err := graph.Close(); err != nil {
			slog.Error("Failed to close the graph store", "error", err)
		}
	}()

	llmClient, err := newLLMClient()
	if err != nil {
		log.Fatalf("FATAL: Could not configure the reasoning backend: %v", err)
	}

	hf := forecaster.NewHFForecaster()
	var fc forecaster.Forecaster
	if hf.Configured() {
		fc = hf
		slog.Info("Calibrated forecasting enabled")
	} else {
		slog.Info("Calibrated forecasting disabled (no HuggingFace token). " +
			"Validation runs on reasoning confidence only.")
	}

	orchestrator := intelligence.New(llmClient, fc)

	router := gin.Default()
	router.Use(otelgin.Middleware("commandcenter-orchestrator"))
	router.Use(middleware.CORS())
	routes.SetupRoutes(router, graph, orchestrator, hf.Configured())

	slog.Info("CommandCenter orchestrator listening", "port", port, "data_dir", dataDir)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
