package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/jdvries/liftlog/internal/config"
	"github.com/jdvries/liftlog/internal/db"
	"github.com/jdvries/liftlog/internal/importer"
	"github.com/jdvries/liftlog/internal/logging"
	"github.com/jdvries/liftlog/internal/workouts"
)

func main() {
	fmt.Println("liftlog importer starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	workbookPath := flag.String("file", "", "path of the xlsx workbook to import")
	seedOnly := flag.Bool("seed", false, "only seed the exercise catalog, do not import sets")
	userIDStr := flag.String("user", "", "target user id (defaults to the configured owner)")
	flag.Parse()

	if *workbookPath == "" {
		log.Fatalf("no workbook given, use -file")
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogToStdout: true,
		LogLevel:    cfg.LogLevel,
		Environment: cfg.Environment,
	})

	if *userIDStr == "" {
		*userIDStr = cfg.OwnerUserID
	}
	userID, err := uuid.Parse(*userIDStr)
	if err != nil {
		log.Fatalf("parse user id: %s", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost: cfg.PostgresHost,
		DBPort: cfg.PostgresPort,
		DBName: cfg.PostgresDBName,
	})
	if err != nil {
		log.Fatalf("new db pool: %s", err)
	}
	defer dbPool.Close()

	workbook, err := os.Open(*workbookPath)
	if err != nil {
		log.Fatalf("open workbook: %s", err)
	}
	defer func() {
		if err := workbook.Close(); err != nil {
			log.Warnf("close workbook: %s", err)
		}
	}()

	imp := importer.New(
		workouts.NewRepo(dbPool),
		workouts.NewCatalogRepo(dbPool),
		userID,
	)

	if *seedOnly {
		seeded, err := imp.SeedExercises(ctx, workbook)
		if err != nil {
			log.Fatalf("seed exercises: %s", err)
		}
		log.Infof("done, %d exercises seeded", seeded)
		return
	}

	result, err := imp.ImportWorkbook(ctx, workbook)
	if err != nil {
		log.Fatalf("import workbook: %s", err)
	}

	log.Infof(
		"done: %d parsed, %d prepared, %d inserted, %d skipped",
		result.RowsParsed, result.RowsPrepared, result.RowsInserted, result.RowsSkipped,
	)
}
