// Command accrual runs the daily interest batch: accrue one day of interest
// for every eligible account and, with -post, credit the accumulated accrued
// interest to the accounts.
package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/corebank/accounts-ledger/src/internal/adapter/events"
	"github.com/corebank/accounts-ledger/src/internal/adapter/events/kafka"
	"github.com/corebank/accounts-ledger/src/internal/adapter/repository/postgres"
	"github.com/corebank/accounts-ledger/src/internal/config"
	"github.com/corebank/accounts-ledger/src/internal/logger"
	"github.com/corebank/accounts-ledger/src/internal/usecase/services"
)

func main() {
	asOfFlag := flag.String("as-of", "", "accrual date as YYYY-MM-DD (defaults to today, UTC)")
	post := flag.Bool("post", false, "post accumulated accrued interest after the accrual run")
	brokers := flag.String("brokers", "", "comma-separated kafka brokers for posting events (overrides KAFKA_BROKERS)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger.Init(cfg.LogLevel)

	asOf := time.Now().UTC()
	if *asOfFlag != "" {
		asOf, err = time.Parse("2006-01-02", *asOfFlag)
		if err != nil {
			log.Fatalf("parse -as-of: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	var publisher events.Publisher
	if *brokers != "" {
		cfg.EventsEnabled = true
		cfg.KafkaBrokers = strings.Split(*brokers, ",")
	}
	if cfg.EventsEnabled {
		kp := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close()
		publisher = kp
	}

	svc := services.NewInterestService(
		postgres.NewAccountRepository(db),
		postgres.NewProductRepository(db),
		postgres.NewAccrualRepository(db),
		postgres.NewPostingRepository(db),
		publisher,
	)

	accrued, err := svc.RunInterestCycle(ctx, asOf)
	if err != nil {
		log.Fatalf("run interest cycle: %v", err)
	}
	log.Printf("accrual %s: considered=%d accrued=%d skipped=%d failed=%d total=%s",
		accrued.AsOf.Format("2006-01-02"), accrued.Considered, accrued.Accrued, accrued.Skipped, accrued.Failed, accrued.TotalAccrued.StringFixed(2))

	if *post {
		posted, err := svc.PostAccruedInterest(ctx, asOf)
		if err != nil {
			log.Fatalf("post accrued interest: %v", err)
		}
		log.Printf("posting %s: considered=%d posted=%d failed=%d total=%s",
			posted.AsOf.Format("2006-01-02"), posted.Considered, posted.Posted, posted.Failed, posted.TotalPosted.StringFixed(2))
	}

	if accrued.Failed > 0 {
		log.Fatal("interest cycle finished with failures")
	}
}
