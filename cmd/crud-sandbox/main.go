package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Ratio1/crud_sdk_go/internal/devseed"
	"github.com/Ratio1/crud_sdk_go/internal/sandbox"
	"github.com/Ratio1/crud_sdk_go/internal/sandbox/sqlitestore"
	"github.com/Ratio1/crud_sdk_go/pkg/crud"
	"github.com/Ratio1/crud_sdk_go/pkg/crud/mock"
)

const (
	apiURLEnv = "CRUD_API_URL"
	apiKeyEnv = "CRUD_API_KEY"
)

func main() {
	addr := flag.String("addr", ":8787", "listen address")
	seed := flag.String("seed", "", "path to YAML or JSON item seed")
	dbPath := flag.String("db", "", "SQLite database path (in-memory mock when empty)")
	latency := flag.Duration("latency", 0, "artificial latency to inject per request")
	fail := flag.String("fail", "", "failure injection (rate=<float>,code=<httpStatus>)")
	credits := flag.Int("credits", 0, "requests allowed per API key before 403 (0 = unlimited)")
	apiKeys := flag.String("api-keys", "sandbox-key", "comma separated accepted API keys (empty accepts any)")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger := logrus.New()
	lvl, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatalf("parse log level: %v", err)
	}
	logger.SetLevel(lvl)
	gin.SetMode(gin.ReleaseMode)

	failCfg, err := sandbox.ParseFailConfig(*fail)
	if err != nil {
		logger.Fatalf("parse fail flag: %v", err)
	}

	var entries []devseed.ItemSeedEntry
	if *seed != "" {
		entries, err = devseed.LoadItemSeed(*seed)
		if err != nil {
			logger.Fatalf("load seed: %v", err)
		}
	}

	var store crud.Backend
	if *dbPath != "" {
		db, err := sqlitestore.Open(*dbPath)
		if err != nil {
			logger.Fatalf("open database: %v", err)
		}
		defer db.Close()
		if err := db.Seed(context.Background(), entries); err != nil {
			logger.Fatalf("apply seed: %v", err)
		}
		store = db
	} else {
		m := mock.New()
		if err := m.Seed(entries); err != nil {
			logger.Fatalf("apply seed: %v", err)
		}
		store = m
	}

	keys := splitKeys(*apiKeys)
	srv, err := sandbox.New(sandbox.Config{
		Store:   store,
		APIKeys: keys,
		Credits: *credits,
		Latency: *latency,
		Fail:    failCfg,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatalf("init sandbox: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"addr":    *addr,
		"db":      *dbPath,
		"seeded":  len(entries),
		"credits": *credits,
	}).Info("crud-sandbox listening")

	host := *addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	fmt.Println()
	fmt.Println("export CRUD_RUNTIME_MODE=http")
	fmt.Printf("export %s=http://%s\n", apiURLEnv, host)
	if len(keys) > 0 {
		fmt.Printf("export %s=%s\n", apiKeyEnv, keys[0])
	}
	fmt.Println()

	if err := srv.Run(*addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
