package etl

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BartekS5/sales-etl/pkg/logger"
	"github.com/BartekS5/sales-etl/pkg/models"
)

type Pipeline struct {
	Extractor   Extractor
	Transformer *Transformer
	Loader      Loader
	SampleSize  int
	DryRun      bool
}

func NewPipeline(ext Extractor, tr *Transformer, loader Loader, sampleSize int, dryRun bool) *Pipeline {
	if tr == nil {
		tr = NewTransformer()
	}
	return &Pipeline{
		Extractor:   ext,
		Transformer: tr,
		Loader:      loader,
		SampleSize:  sampleSize,
		DryRun:      dryRun,
	}
}

// Summary describes one run. Stage outcomes are kept so a caller can tell an
// empty run from a failed one.
type Summary struct {
	RunID     uuid.UUID
	StartedAt time.Time
	Duration  time.Duration
	DryRun    bool

	Schema       Outcome
	Pending      Outcome
	Supplemental Outcome
	Load         Outcome

	Extracted  int
	Duplicates int
	Rejected   int
	Processed  int
	Loaded     int

	Verify   VerifyReport
	Verified bool
}

// StageOutcome pairs a stage name with what it reported.
type StageOutcome struct {
	Name    string
	Outcome Outcome
}

// Stages lists the store-facing stages in execution order.
func (s *Summary) Stages() []StageOutcome {
	return []StageOutcome{
		{"schema", s.Schema},
		{"extract", s.Pending},
		{"supplemental", s.Supplemental},
		{"load", s.Load},
		{"verify", s.Verify.Outcome},
	}
}

// FailedStages names every stage whose outcome was StatusFailed.
func (s *Summary) FailedStages() []string {
	var stages []string
	for _, st := range s.Stages() {
		if st.Outcome.Failed() {
			stages = append(stages, st.Name)
		}
	}
	return stages
}

// Run executes Extract -> Transform -> Load -> Verify once. Component failures
// are recorded in the summary; only a cancelled context aborts the run.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	s := &Summary{RunID: uuid.New(), StartedAt: time.Now(), DryRun: p.DryRun}
	runLog := logger.With("run_id", s.RunID.String())
	runLog.Info().Bool("dry_run", p.DryRun).Msg("Starting ETL pipeline")

	finish := func() *Summary {
		s.Duration = time.Since(s.StartedAt)
		runLog.Info().
			Dur("duration", s.Duration).
			Int("processed", s.Processed).
			Int("loaded", s.Loaded).
			Strs("failed_stages", s.FailedStages()).
			Msg("ETL pipeline completed")
		return s
	}

	if !p.DryRun {
		s.Schema = p.Loader.EnsureSchema(ctx)
	}

	runLog.Info().Msg("=== EXTRACTION PHASE ===")
	pending := p.Extractor.FetchPending(ctx)
	s.Pending = pending.Outcome
	if err := ctx.Err(); err != nil {
		return finish(), err
	}
	external := p.Extractor.Supplemental(ctx)
	s.Supplemental = external.Outcome

	combined := make([]models.RawRecord, 0, len(pending.Records)+len(external.Records))
	combined = append(combined, pending.Records...)
	combined = append(combined, external.Records...)
	s.Extracted = len(combined)
	logger.Infof("Total records to process: %d", s.Extracted)

	if len(combined) == 0 {
		logger.Info("No data to process.")
		return finish(), nil
	}

	runLog.Info().Msg("=== TRANSFORMATION PHASE ===")
	cleaned := p.Transformer.Clean(combined)
	s.Duplicates = cleaned.Duplicates
	s.Rejected = cleaned.Rejected
	transformed := p.Transformer.Transform(cleaned.Records)
	s.Processed = transformed.Processed

	if p.DryRun {
		logger.Infof("[DRY RUN] Would load %d records", len(transformed.Records))
		return finish(), nil
	}
	if err := ctx.Err(); err != nil {
		return finish(), err
	}

	runLog.Info().Msg("=== LOADING PHASE ===")
	loaded := p.Loader.Upsert(ctx, transformed.Records)
	s.Load = loaded.Outcome
	s.Loaded = loaded.Count

	runLog.Info().Msg("=== VERIFICATION PHASE ===")
	s.Verify = p.Loader.Verify(ctx, p.SampleSize)
	s.Verified = s.Verify.OK()

	return finish(), nil
}
