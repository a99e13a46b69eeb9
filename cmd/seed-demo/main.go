// seed-demo creates the demo account (username: demo) if it does not
// exist yet. The server also runs this on startup; the command exists
// for environments that start with SKIP_MIGRATIONS=true.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-demo
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alquilerfacil/rentas_backend/config"
	"github.com/alquilerfacil/rentas_backend/models"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	if err := models.SeedDemoUser(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed demo user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("demo user %q is ready\n", models.DemoUsername)
}
