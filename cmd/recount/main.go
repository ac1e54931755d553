// Command recount recomputes the redemption and enrollment counters from the
// stored records. Run it after importing data or restoring a backup.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/config"
	"github.com/WenderAlvesSantos/api-aecac/logger"
	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/repositories"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report differences without writing")
	flag.Parse()

	_ = godotenv.Load()
	log := logger.New("info", "console")
	defer log.Sync()

	cfg, err := config.LoadDatabase()
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	client, err := config.ConnectDB(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.DBName)

	fixed, err := recountBenefits(ctx, db, *dryRun, log)
	if err != nil {
		log.Fatal("benefit recount failed", zap.Error(err))
	}
	for _, kind := range []string{models.KindTraining, models.KindEvent} {
		n, err := recountActivities(ctx, db, kind, *dryRun, log)
		if err != nil {
			log.Fatal("activity recount failed", zap.String("kind", kind), zap.Error(err))
		}
		fixed += n
	}
	log.Info("recount finished", zap.Int("fixed", fixed), zap.Bool("dryRun", *dryRun))
}

func recountBenefits(ctx context.Context, db *mongo.Database, dryRun bool, log *zap.Logger) (int, error) {
	benefits := repositories.NewBenefitRepository(db)
	redemptions := repositories.NewRedemptionRepository(db)

	all, err := benefits.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	fixed := 0
	for _, b := range all {
		n, err := redemptions.CountByBenefit(ctx, b.ID)
		if err != nil {
			return fixed, err
		}
		if int(n) == b.Redeemed {
			continue
		}
		log.Info("benefit counter out of sync",
			zap.String("id", b.ID.Hex()),
			zap.Int("stored", b.Redeemed),
			zap.Int64("actual", n),
		)
		if !dryRun {
			if err := benefits.SetRedeemed(ctx, b.ID, int(n)); err != nil {
				return fixed, err
			}
		}
		fixed++
	}
	return fixed, nil
}

func recountActivities(ctx context.Context, db *mongo.Database, kind string, dryRun bool, log *zap.Logger) (int, error) {
	activities := repositories.NewActivityRepository(db, kind)
	enrollments := repositories.NewEnrollmentRepository(db)

	all, err := activities.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	fixed := 0
	for _, a := range all {
		n, err := enrollments.CountByItem(ctx, kind, a.ID)
		if err != nil {
			return fixed, err
		}
		if int(n) == a.Enrolled {
			continue
		}
		log.Info("enrollment counter out of sync",
			zap.String("kind", kind),
			zap.String("id", a.ID.Hex()),
			zap.Int("stored", a.Enrolled),
			zap.Int64("actual", n),
		)
		if !dryRun {
			if err := activities.SetEnrolled(ctx, a.ID, int(n)); err != nil {
				return fixed, err
			}
		}
		fixed++
	}
	return fixed, nil
}
