// Command fix-corrupted-data finds cached data sets that no longer decode
// and offers to delete them so the server downloads a fresh copy.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/xwing-api/internal/errors"
	"github.com/KirkDiggler/xwing-api/internal/repositories/dataset"
)

func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	repo, err := dataset.NewRedis(&dataset.RedisConfig{Client: client})
	if err != nil {
		log.Fatal("Failed to create dataset repository:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Scanning cached data sets...")

	iter := client.Scan(ctx, 0, dataset.KeyPrefix+"*", 0).Iterator()

	var corruptedKeys []string
	var checkedCount int

	for iter.Next(ctx) {
		key := iter.Val()
		source := strings.TrimPrefix(key, dataset.KeyPrefix)
		checkedCount++

		out, err := repo.Get(ctx, dataset.GetInput{Source: source})
		switch {
		case errors.IsNotFound(err):
			// expired between scan and read
			continue
		case err != nil:
			fmt.Printf("✗ %s: %v\n", key, err)
			corruptedKeys = append(corruptedKeys, key)
		case len(out.Dataset.Groups) == 0:
			fmt.Printf("✗ %s: no card groups\n", key)
			corruptedKeys = append(corruptedKeys, key)
		default:
			fmt.Printf("✓ %s: %d groups, stored %s\n", key, len(out.Dataset.Groups), out.StoredAt.Format("2006-01-02 15:04"))
		}
	}

	if err := iter.Err(); err != nil {
		log.Fatal("Error during scan:", err)
	}

	fmt.Printf("\nChecked %d keys, found %d corrupted entries\n", checkedCount, len(corruptedKeys))

	if len(corruptedKeys) == 0 {
		fmt.Println("No corrupted data found!")
		return
	}

	fmt.Print("\nDo you want to DELETE these corrupted entries? (yes/no): ")
	var response string
	_, _ = fmt.Scanln(&response) // nolint:errcheck // empty input means no

	if response != "yes" {
		fmt.Println("Aborted - no changes made")
		return
	}

	for _, key := range corruptedKeys {
		if err := client.Del(ctx, key).Err(); err != nil {
			fmt.Printf("Failed to delete %s: %v\n", key, err)
		} else {
			fmt.Printf("Deleted %s\n", key)
		}
	}
	fmt.Println("\nCleanup complete!")
}
