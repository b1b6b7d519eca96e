package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
)

func main() {
	ctx := context.Background()

	spannerDB := os.Getenv("SPANNER_DATABASE")
	if spannerDB == "" {
		spannerDB = "projects/test-project/instances/dev-instance/databases/order-service-db"
	}

	client, err := spanner.NewClient(ctx, spannerDB)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	stmt := spanner.Statement{
		SQL: "SELECT entry_id, order_id, status, attempts, created_at FROM outbox_entries ORDER BY created_at DESC LIMIT 10",
	}

	iter := client.Single().Query(ctx, stmt)
	defer iter.Stop()

	fmt.Println("Entries in outbox_entries table:")
	count := 0
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Fatalf("Failed to iterate: %v", err)
		}

		var entryID, orderID, status string
		var attempts int64
		var createdAt spanner.NullTime
		if err := row.Columns(&entryID, &orderID, &status, &attempts, &createdAt); err != nil {
			log.Fatalf("Failed to scan: %v", err)
		}

		fmt.Printf("%d. %s (order: %s, status: %s, attempts: %d)\n", count+1, entryID, orderID, status, attempts)
		count++
	}

	if count == 0 {
		fmt.Println("No entries found!")
	} else {
		fmt.Printf("\nTotal: %d entries\n", count)
	}
}
