// Command lookups deploys getCityStateByZip and getMyStudioOrders.
package main

import (
	"log/slog"
	"os"

	"github.com/songreaktor/functions/internal/app"
	"github.com/songreaktor/functions/internal/handlers"
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	handlers.RegisterLookups(app.Shared)
}

func main() {}
