// Package dispatcher runs a loaded batch: operations execute one at a
// time in declaration order, each producing an outcome that records its
// outputs or its error. Failures are isolated per operation unless strict
// mode is on.
package dispatcher

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"batchcut/config"
	"batchcut/engine"
	"batchcut/models"
	"batchcut/resolver"
)

// Dispatcher executes batch operations against a media engine.
type Dispatcher struct {
	engine   engine.MediaEngine
	settings *config.Settings
	log      *zap.Logger
}

// New creates a dispatcher.
func New(eng engine.MediaEngine, settings *config.Settings, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		engine:   eng,
		settings: settings,
		log:      log,
	}
}

// Run executes every operation of the batch in declaration order and
// returns one outcome per executed operation. With KeepGoing (the
// default) a failure is recorded and the next operation still runs; in
// strict mode the first failure ends the batch, leaving later operations
// unexecuted and unreported.
func (d *Dispatcher) Run(ctx context.Context, batch *config.Batch) []*models.Outcome {
	outcomes := make([]*models.Outcome, 0, len(batch.Operations))

	for _, op := range batch.Operations {
		start := time.Now()
		outputs, err := d.execute(ctx, op)
		elapsed := time.Since(start)

		id := uuid.NewString()
		var outcome *models.Outcome
		if err != nil {
			outcome, _ = models.NewOutcomeFailure(id, op.Name, op.Index, err, elapsed)
			d.log.Error("operation failed",
				zap.String("operation", op.Name),
				zap.Int("index", op.Index),
				zap.Error(err))
		} else {
			outcome, _ = models.NewOutcomeSuccess(id, op.Name, op.Index, outputs, elapsed)
			d.log.Info("operation completed",
				zap.String("operation", op.Name),
				zap.Int("index", op.Index),
				zap.Strings("outputs", outputs),
				zap.Duration("elapsed", elapsed))
		}
		outcomes = append(outcomes, outcome)

		if err != nil && !d.settings.KeepGoing {
			d.log.Warn("strict mode: stopping after failed operation",
				zap.String("operation", op.Name),
				zap.Int("index", op.Index))
			break
		}
	}

	return outcomes
}

// execute validates and runs one operation, returning its output paths.
func (d *Dispatcher) execute(ctx context.Context, op config.Operation) ([]string, error) {
	if err := op.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch p := op.Params.(type) {
	case *config.SlidingWindowParams:
		return d.slidingWindow(ctx, p)
	case *config.ConcatParams:
		if err := d.engine.Concat(ctx, p.VideoPaths, p.OutputPath); err != nil {
			return nil, err
		}
		return []string{p.OutputPath}, nil
	case *config.FrozenFrameParams:
		return d.frozenFrame(ctx, p)
	case *config.TrimParams:
		return d.trim(ctx, p)
	case *config.SpeedParams:
		if err := resolver.ValidateSpeed(p.Speed); err != nil {
			return nil, err
		}
		if err := d.engine.SetSpeed(ctx, p.VideoPath, p.Speed, p.OutputPath); err != nil {
			return nil, err
		}
		return []string{p.OutputPath}, nil
	case *config.SubtitleSpeedParams:
		if err := resolver.ValidateSpeed(p.Speed); err != nil {
			return nil, err
		}
		if err := d.engine.ShiftSubtitles(ctx, p.SubtitlePath, p.Speed, p.OutputPath); err != nil {
			return nil, err
		}
		return []string{p.OutputPath}, nil
	case *config.AudioParams:
		return d.extractAudio(ctx, p)
	default:
		return nil, fmt.Errorf("operation %s has no executor", op.Name)
	}
}

func (d *Dispatcher) slidingWindow(ctx context.Context, p *config.SlidingWindowParams) ([]string, error) {
	duration, err := d.engine.Duration(ctx, p.VideoPath)
	if err != nil {
		return nil, err
	}

	win := models.WindowSpec{Length: p.WindowLength, Step: p.SlideStep}
	intervals, err := resolver.SlidingWindows(win, p.StartTime, p.EndTime, duration)
	if err != nil {
		return nil, err
	}

	d.log.Debug("resolved sliding windows",
		zap.String("video", p.VideoPath),
		zap.Int("count", len(intervals)))

	return d.engine.Cut(ctx, p.VideoPath, intervals, p.OutputDir)
}

func (d *Dispatcher) frozenFrame(ctx context.Context, p *config.FrozenFrameParams) ([]string, error) {
	duration, err := d.engine.Duration(ctx, p.VideoPath)
	if err != nil {
		return nil, err
	}

	var position models.FreezePosition
	if p.FreezePosition != "" {
		position, err = models.ParseFreezePosition(p.FreezePosition)
		if err != nil {
			return nil, err
		}
	}

	instant, err := resolver.FreezeInstant(p.FreezeTime, position, duration)
	if err != nil {
		return nil, err
	}

	if err := d.engine.Freeze(ctx, p.VideoPath, instant, p.FreezeDuration, p.OutputPath); err != nil {
		return nil, err
	}
	return []string{p.OutputPath}, nil
}

func (d *Dispatcher) trim(ctx context.Context, p *config.TrimParams) ([]string, error) {
	duration, err := d.engine.Duration(ctx, p.VideoPath)
	if err != nil {
		return nil, err
	}

	intervals, err := resolver.ExplicitIntervals(p.Intervals, duration)
	if err != nil {
		return nil, err
	}

	// An existing directory means one file per interval; anything else is
	// treated as the single joined output file.
	if info, statErr := os.Stat(p.OutputPath); statErr == nil && info.IsDir() {
		return d.engine.Cut(ctx, p.VideoPath, intervals, p.OutputPath)
	}

	if err := d.engine.CutToFile(ctx, p.VideoPath, intervals, p.OutputPath); err != nil {
		return nil, err
	}
	return []string{p.OutputPath}, nil
}

func (d *Dispatcher) extractAudio(ctx context.Context, p *config.AudioParams) ([]string, error) {
	req := engine.AudioRequest{
		SourcePath: p.VideoPath,
		OutputPath: p.OutputPath,
		Format:     p.AudioFormat,
		Codec:      p.Codec,
		Bitrate:    p.Bitrate,
	}

	if p.StartTime.IsSet() || p.EndTime.IsSet() {
		duration, err := d.engine.Duration(ctx, p.VideoPath)
		if err != nil {
			return nil, err
		}

		start, err := p.StartTime.SecondsOr(0)
		if err != nil {
			return nil, fmt.Errorf("start_time: %w", err)
		}
		end, err := p.EndTime.SecondsOr(duration)
		if err != nil {
			return nil, fmt.Errorf("end_time: %w", err)
		}

		interval := models.Interval{Start: start, End: end}
		if err := interval.Validate(duration); err != nil {
			return nil, fmt.Errorf("%w: %v", resolver.ErrInvalidRange, err)
		}
		req.Interval = &interval
	}

	if err := d.engine.ExtractAudio(ctx, req); err != nil {
		return nil, err
	}
	return []string{p.OutputPath}, nil
}
