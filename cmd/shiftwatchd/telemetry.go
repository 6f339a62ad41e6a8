package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"shiftwatch/lib/serviceutil"
	"shiftwatch/lib/telemetry"
)

func InitTelemetry(ctx context.Context, verbose bool) {
	telemetry.InitSlog(verbose)

	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	err := telemetry.SetupFromEnv(ctx, "shiftwatchd")
	if errors.Is(err, os.ErrNotExist) {
		slog.DebugContext(ctx, "no telemetry.json5 found, telemetry disabled")
		return
	}
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}

	go func() {
		<-ctx.Done()
		telemetry.Shutdown(context.Background())
	}()
}
