package main

import (
	"context"
	"flag"
	"log"

	"go-employee/internal/config"
	"go-employee/internal/shared/connection"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding goose migrations")
	flag.Parse()

	cfg := config.Load()
	dsn := connection.PostgresDSN(
		cfg.Postgres.Host,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Name,
		cfg.Postgres.Port,
		cfg.Postgres.SSLMode,
	)

	ctx := context.Background()
	dbpool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	db := stdlib.OpenDBFromPool(dbpool)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal(err)
	}
	if err := goose.Up(db, *dir); err != nil {
		log.Fatal(err)
	}

	log.Println("Migrations applied successfully")
}
