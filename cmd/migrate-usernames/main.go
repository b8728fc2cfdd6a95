// Command migrate-usernames backfills a BeAware username for every user
// who never picked one. It is safe to re-run: users that already hold a
// username are skipped.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/beaware-fyi/beaware-api/internal/application/allocator"
	"github.com/beaware-fyi/beaware-api/internal/config"
	"github.com/beaware-fyi/beaware-api/internal/domain"
	"github.com/beaware-fyi/beaware-api/internal/infrastructure/dynamo"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)
	userRepo := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	progress := func(u domain.User, assigned string, err error) {
		switch {
		case err != nil:
			fmt.Printf("✗ %s (%s): %v\n", u.Email, u.UserID, err)
		case assigned != "":
			fmt.Printf("✓ %s -> %s\n", u.Email, assigned)
		default:
			fmt.Printf("- %s already has %s\n", u.Email, *u.BeawareUsername)
		}
	}

	sum, err := allocator.New(userRepo, progress).Run(ctx)
	if err != nil {
		log.Fatalf("migration aborted: %v", err)
	}

	fmt.Printf("\nassigned %d, skipped %d, failed %d\n", sum.Assigned, sum.Skipped, sum.Failed)
	if sum.Failed > 0 {
		os.Exit(1)
	}
}
