package scheduler

import (
	"context"

	"go.uber.org/zap"

	"github.com/isira-aw/Metropolitan-NEW-EMS/config"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
)

// Built-in job names.
const (
	JobScoreBackfill = "scores.backfill"
	JobVerifyMinutes = "jobcards.verify-minutes"
)

// ScoreBackfiller credits approved cards that have no score.
type ScoreBackfiller interface {
	BackfillScores(ctx context.Context) (int, error)
}

// MinuteVerifier replays card logs against the cached work minutes.
type MinuteVerifier interface {
	RebuildWorkMinutes(ctx context.Context, repair bool) (*dto.RebuildResult, error)
}

// RegisterBuiltins wires the maintenance jobs with the configured specs.
func (s *Service) RegisterBuiltins(cfg config.SchedulerConfig, scores ScoreBackfiller, cards MinuteVerifier) error {
	if err := s.Register(JobScoreBackfill, cfg.ScoreBackfillSpec, s.backfillScores(scores)); err != nil {
		return err
	}
	return s.Register(JobVerifyMinutes, cfg.VerifyMinutesSpec, s.verifyMinutes(cards))
}

func (s *Service) backfillScores(scores ScoreBackfiller) JobFunc {
	return func(ctx context.Context) error {
		n, err := scores.BackfillScores(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			s.logger.Info("scores backfilled", zap.Int("created", n))
		}
		return nil
	}
}

func (s *Service) verifyMinutes(cards MinuteVerifier) JobFunc {
	return func(ctx context.Context) error {
		res, err := cards.RebuildWorkMinutes(ctx, true)
		if err != nil {
			return err
		}
		for _, d := range res.Drifts {
			s.logger.Warn("work minutes drifted",
				zap.String("job_card_id", d.JobCardID),
				zap.Int("cached", d.Cached),
				zap.Int("replayed", d.Replayed))
		}
		s.logger.Info("work minutes verified", zap.Int("checked", res.Checked), zap.Int("repaired", res.Repaired))
		return nil
	}
}
