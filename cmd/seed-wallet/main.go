// Command seed-wallet credits a member's wallet in one community. It is the
// only way to put funds into the system; transfers between members happen
// through match settlement.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/playmatatu/duels/internal/config"
	"github.com/playmatatu/duels/internal/database"
	"github.com/playmatatu/duels/internal/logging"
	"github.com/playmatatu/duels/internal/wallet"
)

func main() {
	user := flag.String("user", "", "member id")
	community := flag.String("community", "", "community id")
	amount := flag.Int64("amount", 0, "amount to credit")
	note := flag.String("note", "seed", "ledger description")
	flag.Parse()

	if *user == "" || *community == "" || *amount <= 0 {
		flag.Usage()
		log.Fatal("user, community and a positive amount are required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	balance, err := wallet.NewPostgres(db, logger.Named("wallet")).Credit(context.Background(), *user, *community, *amount, *note)
	if err != nil {
		log.Fatalf("Failed to credit wallet: %v", err)
	}
	log.Printf("Credited %d to %s in %s, balance now %d", *amount, *user, *community, balance)
}
