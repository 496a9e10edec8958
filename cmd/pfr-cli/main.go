package main

import (
	"context"
	"os"

	"pfstats-backend/cmd/pfr-cli/commands"
	"pfstats-backend/lib/serviceutil"
	"pfstats-backend/lib/telemetry"
)

func main() {
	telemetry.InitSlog(os.Getenv("PFR_DEBUG") != "")

	ctx := serviceutil.SignalContext()
	err := telemetry.SetupFromEnv(ctx, "pfr-cli")
	if err != nil {
		serviceutil.Fatal("failed to set up telemetry", err)
	}
	defer telemetry.Shutdown(context.Background())

	commands.ExecuteContext(ctx)
}
