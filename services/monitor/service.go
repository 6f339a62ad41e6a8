package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"shiftwatch/lib/scrapers/nhsp"
	"shiftwatch/lib/timezone"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/monitor")

// ShiftSource is the session-owning side of the scraper, satisfied by
// *nhsp.SessionManager.
type ShiftSource interface {
	EnsureSession(ctx context.Context) error
	FetchShifts(ctx context.Context, rng nhsp.DateRange) (*nhsp.ShiftsResponse, error)
	Invalidate()
}

// Notifier delivers a rendered notification. Delivery failures are the
// notifier's problem: the poll loop logs them and moves on.
type Notifier interface {
	Notify(ctx context.Context, body string, count int) error
}

type Options struct {
	Source    ShiftSource
	Notifier  Notifier
	PortalURL string

	// Interval is the fixed poll period, default one minute.
	Interval time.Duration
	// BootstrapAttempts bounds the startup retry loop, default 3.
	BootstrapAttempts int
	// BootstrapRetryDelay sits between failed startup attempts,
	// default 5s.
	BootstrapRetryDelay time.Duration
}

// Service runs the poll loop: ensure session, query, detect change,
// notify, wait, forever.
type Service struct {
	source    ShiftSource
	notifier  Notifier
	portalURL string

	interval          time.Duration
	bootstrapAttempts int
	retryDelay        time.Duration

	detector Detector
}

func NewService(opts Options) *Service {
	if opts.Interval == 0 {
		opts.Interval = time.Minute
	}
	if opts.BootstrapAttempts == 0 {
		opts.BootstrapAttempts = 3
	}
	if opts.BootstrapRetryDelay == 0 {
		opts.BootstrapRetryDelay = 5 * time.Second
	}

	return &Service{
		source:            opts.Source,
		notifier:          opts.Notifier,
		portalURL:         opts.PortalURL,
		interval:          opts.Interval,
		bootstrapAttempts: opts.BootstrapAttempts,
		retryDelay:        opts.BootstrapRetryDelay,
	}
}

// Run polls until ctx is cancelled. The bootstrap plus first cycle is
// retried a bounded number of times before giving up; once the ticker
// is running, a failed cycle drops the session, skips, and the next
// tick starts over with a fresh bootstrap.
func (s *Service) Run(ctx context.Context) error {
	var err error
	for attempt := 1; attempt <= s.bootstrapAttempts; attempt++ {
		err = s.cycle(ctx)
		if err == nil {
			break
		}

		slog.ErrorContext(ctx, "startup cycle failed",
			"attempt", attempt,
			"max_attempts", s.bootstrapAttempts,
			"err", err,
		)
		s.source.Invalidate()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.retryDelay):
		}
	}
	if err != nil {
		return fmt.Errorf("giving up after %d bootstrap attempts: %w", s.bootstrapAttempts, err)
	}

	slog.InfoContext(ctx, "start daemon", "task", fmt.Sprintf("poll for shifts every %s", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := s.cycle(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "poll cycle failed", "err", err)
				// stale credential is the usual suspect, rebuild
				// the session on the next tick
				s.source.Invalidate()
			}
		}
	}
}

func (s *Service) cycle(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "cycle")
	defer span.End()

	err := s.source.EnsureSession(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "session bootstrap failed")
		span.RecordError(err)
		return fmt.Errorf("ensure session: %w", err)
	}

	rng := nhsp.ComputeRange(timezone.Now())
	resp, err := s.source.FetchShifts(ctx, rng)
	if err != nil {
		span.SetStatus(codes.Error, "shift query failed")
		span.RecordError(err)
		return err
	}

	shifts := nhsp.Normalize(resp)
	if len(shifts) == 0 {
		slog.InfoContext(ctx, "0 shifts found")
		s.detector.Reset()
		return nil
	}

	body := RenderShifts(s.portalURL, shifts)
	if !s.detector.ShouldNotify(body, len(shifts)) {
		slog.InfoContext(ctx, "no new shifts", "shifts", len(shifts))
		return nil
	}

	err = s.notifier.Notify(ctx, body, len(shifts))
	if err != nil {
		// never let a delivery failure stall polling
		slog.ErrorContext(ctx, "notification failed", "shifts", len(shifts), "err", err)
		return nil
	}

	slog.InfoContext(ctx, "notification sent", "shifts", len(shifts))
	return nil
}
