package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/stemsi/careerpath/internal/config"
	"github.com/stemsi/careerpath/internal/database"
	"github.com/stemsi/careerpath/internal/logger"
	"github.com/stemsi/careerpath/internal/model"
	"github.com/stemsi/careerpath/internal/repository"
	"github.com/stemsi/careerpath/internal/store"
)

func main() {
	var dir string
	var dryRun bool
	flag.StringVar(&dir, "dir", "seed/banks", "Directory of question bank JSON files")
	flag.BoolVar(&dryRun, "dry-run", false, "Validate files without writing")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	banks, err := loadBanks(dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("Failed to load question banks")
	}
	fmt.Printf("=== Loaded %d question bank(s) from %s ===\n", len(banks), dir)

	if dryRun {
		for _, b := range banks {
			fmt.Printf("%-32s %-13s %d questions\n", b.TestID, b.TestType, len(b.Questions))
		}
		return
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	questionRepo := repository.NewQuestionRepository(pool)

	// Cached banks are dropped so the API serves the new questions. Redis
	// being down only delays that until the cache TTL expires.
	var kv store.KV
	if rdb, err := database.NewRedisClient(ctx, cfg, log); err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, cached banks will expire on their own")
	} else {
		defer rdb.Close()
		kv = store.NewRedisStore(rdb)
	}

	successCount := 0
	for _, b := range banks {
		if err := questionRepo.ReplaceBank(ctx, b); err != nil {
			fmt.Printf("Error seeding %s: %v\n", b.TestID, err)
			continue
		}
		if kv != nil {
			if err := kv.Del(ctx, config.CacheKey.QuestionBankKey(b.TestID)); err != nil {
				log.Warn().Err(err).Str("test_id", b.TestID).Msg("Cache invalidation failed")
			}
		}
		successCount++
		fmt.Printf("Seeded %s (%d questions)\n", b.TestID, len(b.Questions))
	}

	fmt.Printf("\nSeed completed! Successfully loaded %d/%d question banks.\n", successCount, len(banks))
}

// loadBanks reads and validates every *.json file in dir, sorted by name.
func loadBanks(dir string) ([]model.QuestionBankFile, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no *.json files in %s", dir)
	}
	sort.Strings(paths)

	banks := make([]model.QuestionBankFile, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		var b model.QuestionBankFile
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		if err := b.Prepare(); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		if prev, ok := seen[b.TestID]; ok {
			return nil, fmt.Errorf("%s: test_id %s already defined in %s", p, b.TestID, prev)
		}
		seen[b.TestID] = p
		banks = append(banks, b)
	}
	return banks, nil
}
