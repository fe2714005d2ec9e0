package cli

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/BartekS5/sales-etl/internal/config"
	"github.com/BartekS5/sales-etl/internal/etl"
	"github.com/BartekS5/sales-etl/pkg/database"
	"github.com/BartekS5/sales-etl/pkg/logger"
)

// components are the wired store handles for one process run.
type components struct {
	db        *sql.DB
	mongo     *mongo.Client
	extractor *etl.SQLExtractor
	loader    *etl.SQLLoader
}

func connect(cfg *config.Config) (*components, error) {
	dialect, err := etl.DialectFor(cfg.DB.Driver)
	if err != nil {
		return nil, err
	}

	db, err := database.ConnectSQL(cfg.DB.Driver, cfg.DB.DSN())
	if err != nil {
		return nil, err
	}
	c := &components{db: db}

	var source etl.SupplementalSource = etl.StaticSource{}
	if cfg.Mongo.Enabled() {
		client, err := database.ConnectMongo(cfg.Mongo.ConnString)
		if err != nil {
			db.Close()
			return nil, err
		}
		c.mongo = client
		source = etl.NewMongoSource(client, cfg.Mongo.Database, cfg.Mongo.Collection)
	}

	c.extractor = etl.NewSQLExtractor(db, dialect, source)
	c.loader = etl.NewSQLLoader(db, dialect)
	return c, nil
}

func (c *components) Close() {
	if c.mongo != nil {
		database.DisconnectMongo(c.mongo)
	}
	c.db.Close()
}

func runPipeline(cmd *cobra.Command, opts *RunOptions) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logFile := opts.LogFile
	if logFile == "" {
		logFile = cfg.LogFile
	}
	if logFile != "" {
		if err := logger.InitLogger(logFile, logger.INFO); err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer logger.Close()
	}

	sampleSize := opts.SampleSize
	if sampleSize <= 0 {
		sampleSize = cfg.SampleSize
	}

	c, err := connect(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	pipeline := etl.NewPipeline(c.extractor, etl.NewTransformer(), c.loader, sampleSize, opts.DryRun)
	summary, err := pipeline.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("pipeline aborted: %w", err)
	}

	printSummary(cmd.OutOrStdout(), summary)

	if failed := summary.FailedStages(); opts.Strict && len(failed) > 0 {
		return fmt.Errorf("stages failed: %s", strings.Join(failed, ", "))
	}
	return nil
}

func runInitSchema(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	c, err := connect(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	if out := c.loader.EnsureSchema(cmd.Context()); out.Failed() {
		return fmt.Errorf("failed to create processed table: %w", out.Err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Processed table created/verified.")
	return nil
}

func runVerify(cmd *cobra.Command, sampleSize int) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	c, err := connect(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	report := c.loader.Verify(cmd.Context(), sampleSize)
	if !report.OK() {
		return fmt.Errorf("verification failed: %w", report.Err)
	}
	printVerify(cmd.OutOrStdout(), report)
	return nil
}
