package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"serviceboard/adapters/db"
	"serviceboard/adapters/db/migrations"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "Usage: migrate <database-driver> <database-url>")
		os.Exit(2)
	}

	driver := os.Args[1]
	databaseURL := os.Args[2]
	ctx := context.Background()

	log.Printf("Applying report archive schema (%s)", driver)

	// Open applies pending migrations
	conn, err := db.Open(ctx, driver, databaseURL)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	defer conn.Close()

	statuses, err := migrations.NewMigrator(conn).Status(ctx)
	if err != nil {
		log.Fatalf("Failed to read migration status: %v", err)
	}
	for _, st := range statuses {
		state := "pending"
		if st.Applied {
			state = "applied"
		}
		log.Printf("  %s %-32s %s", st.Version, st.Name, state)
	}
	log.Printf("Schema up to date (%d migrations)", len(statuses))
}
