package main

import (
	"context"
	"flag"
	"log"

	"github.com/Houeta/payroll/internal/config"
	"github.com/Houeta/payroll/internal/repository"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
)

func main() {
	var (
		dir     string
		command string
	)
	flag.StringVar(&dir, "dir", "migrations", "directory with goose migrations")
	flag.StringVar(&command, "command", "up", "goose command: up, down, status, version")
	flag.Parse()

	cfg := config.MustLoad()

	dbpool, dbErr := repository.NewDatabase(context.Background(), cfg.Postgres)
	if dbErr != nil {
		log.Fatalf("Failed to connect to DB: %v", dbErr)
	}
	defer dbpool.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Failed to set goose dialect: %v", err)
	}

	dtb := stdlib.OpenDBFromPool(dbpool)
	defer dtb.Close()

	if err := goose.Run(command, dtb, dir); err != nil {
		log.Fatalf("Migration %q failed: %v", command, err)
	}

	log.Printf("Migration %q finished", command)
}
