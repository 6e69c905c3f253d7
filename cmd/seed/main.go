package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TherapyBooking/internal/config"
	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-TherapyBooking/internal/infra/storage/availability"
	therapistRepo "github.com/m04kA/SMC-TherapyBooking/internal/infra/storage/therapist"
	"github.com/m04kA/SMC-TherapyBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-TherapyBooking/pkg/logger"
	"github.com/m04kA/SMC-TherapyBooking/pkg/txmanager"
	"github.com/m04kA/SMC-TherapyBooking/pkg/types"
)

// Шаблоны рабочих окон; терапевту достаётся один из них на каждый рабочий день
var windowTemplates = [][2]string{
	{"09:00", "13:00"},
	{"10:00", "14:00"},
	{"14:00", "18:00"},
	{"15:00", "20:00"},
}

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	count := flag.Int("therapists", 10, "number of therapist profiles to create")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New("", cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	wrappedDB := dbmetrics.Wrap(db, nil, cfg.Database.DBName)
	txMgr := txmanager.NewTransactionManager(wrappedDB)
	therapists := therapistRepo.NewRepository(wrappedDB)
	rules := availabilityRepo.NewRepository(wrappedDB)

	_ = gofakeit.Seed(time.Now().UnixNano())

	log.Info("Seeding %d therapists...", *count)
	for i := 0; i < *count; i++ {
		err := txMgr.Do(ctx, func(txCtx context.Context) error {
			profile, err := therapists.Create(txCtx, &domain.TherapistProfile{
				DisplayName: gofakeit.Name(),
				HourlyRate:  decimal.NewFromFloat(gofakeit.Price(2000, 6000)).Round(0),
				Currency:    cfg.Policy.Currency,
				IsActive:    true,
			})
			if err != nil {
				return fmt.Errorf("create therapist: %w", err)
			}

			// Понедельник - пятница, иногда с дополнительным вечерним окном
			for day := 1; day <= 5; day++ {
				if gofakeit.Number(1, 10) == 1 {
					continue
				}
				window := windowTemplates[gofakeit.Number(0, len(windowTemplates)-1)]
				if err := createRule(txCtx, rules, profile.ID, day, window[0], window[1]); err != nil {
					return err
				}
				if window[1] <= "14:00" && gofakeit.Bool() {
					if err := createRule(txCtx, rules, profile.ID, day, "16:00", "19:00"); err != nil {
						return err
					}
				}
			}

			log.Info("Therapist seeded: id=%d, name=%s, rate=%s %s",
				profile.ID, profile.DisplayName, profile.HourlyRate.StringFixed(2), profile.Currency)
			return nil
		})
		if err != nil {
			log.Fatal("Seed failed: %v", err)
		}
	}

	log.Info("Seed complete")
}

func createRule(ctx context.Context, repo *availabilityRepo.Repository, therapistID int64, day int, start, end string) error {
	_, err := repo.Create(ctx, &domain.AvailabilityRule{
		TherapistID: therapistID,
		DayOfWeek:   day,
		StartTime:   types.TimeString(start),
		EndTime:     types.TimeString(end),
		IsActive:    true,
	})
	if err != nil {
		return fmt.Errorf("create rule for therapist %d: %w", therapistID, err)
	}
	return nil
}
