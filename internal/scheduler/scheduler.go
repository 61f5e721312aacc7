package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/washdesk/internal/clock"
	"github.com/smallbiznis/washdesk/internal/config"
	followupdomain "github.com/smallbiznis/washdesk/internal/followup/domain"
	obsmetrics "github.com/smallbiznis/washdesk/internal/observability/metrics"
	"github.com/smallbiznis/washdesk/internal/ratelimit"
	spacedomain "github.com/smallbiznis/washdesk/internal/space/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrInvalidConfig = errors.New("invalid_scheduler_config")

const lockPrefix = "washdesk:scheduler:"

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Clock        clock.Clock
	FollowUpRepo followupdomain.Repository
	SpaceRepo    spacedomain.Repository
	Business     *config.BusinessConfigHolder `optional:"true"`
	Locker       *ratelimit.Locker            `optional:"true"`
	Metrics      *obsmetrics.SchedulerMetrics `optional:"true"`
	Config       Config                       `optional:"true"`
}

type Scheduler struct {
	db           *gorm.DB
	log          *zap.Logger
	cfg          Config
	clock        clock.Clock
	business     *config.BusinessConfigHolder
	locker       *ratelimit.Locker
	metrics      *obsmetrics.SchedulerMetrics
	followUpRepo followupdomain.Repository
	spaceRepo    spacedomain.Repository
}

func New(p Params) (*Scheduler, error) {
	if p.DB == nil || p.Log == nil || p.Clock == nil || p.FollowUpRepo == nil || p.SpaceRepo == nil {
		return nil, ErrInvalidConfig
	}
	m := p.Metrics
	if m == nil {
		m = obsmetrics.Scheduler()
	}
	return &Scheduler{
		db:           p.DB,
		log:          p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:          p.Config.withDefaults(),
		clock:        p.Clock,
		business:     p.Business,
		locker:       p.Locker,
		metrics:      m,
		followUpRepo: p.FollowUpRepo,
		spaceRepo:    p.SpaceRepo,
	}, nil
}

func (s *Scheduler) runJob(parent context.Context, name string, timeout time.Duration, fn func(ctx context.Context) error) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	ctx, run := s.newJobRun(ctx, name)
	log := s.logger(ctx).With(zap.String("job", name))

	if s.locker.Enabled() {
		key := lockPrefix + name
		token, acquired, err := s.locker.TryLock(ctx, key, s.cfg.LockTTL)
		if err != nil {
			// Without redis we still run; the jobs are read-only.
			log.Warn("scheduler lock unavailable", zap.Error(err))
		} else if !acquired {
			log.Debug("scheduler job held by another replica")
			return nil
		} else {
			defer func() {
				if err := s.locker.Release(context.Background(), key, token); err != nil {
					log.Warn("scheduler lock release failed", zap.Error(err))
				}
			}()
		}
	}

	log.Debug("scheduler.job.start")
	s.metrics.IncJobRun(name)

	err := fn(ctx)
	s.metrics.ObserveJobDuration(name, time.Since(start))
	if err != nil && run.errors == 0 {
		run.Failed()
	}
	s.logJobFinish(ctx, run)
	if err == nil {
		return nil
	}

	isTimeout := errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
	if isTimeout {
		s.metrics.IncJobTimeout(name)
	}
	s.metrics.IncJobError(name, err)
	if isTimeout {
		log.Warn("job timed out", zap.Duration("timeout", timeout), zap.Error(err))
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

func (s *Scheduler) RunOnce(parent context.Context) error {
	jobs := []struct {
		Name string
		Run  func(context.Context) error
	}{
		{JobFollowUpDue, s.FollowUpDueJob},
		{JobOccupationOverdue, s.OccupationOverdueJob},
	}

	var err error
	for _, job := range jobs {
		if !s.isJobEnabled(job.Name) {
			continue
		}
		err = errors.Join(err, s.runJob(parent, job.Name, s.cfg.JobTimeout, job.Run))
	}
	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()
	nextRun := time.Now().Add(s.cfg.RunInterval)

	for {
		if lag := time.Since(nextRun); lag > 0 {
			s.metrics.ObserveRunLoopLag(lag)
		}
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}
		nextRun = nextRun.Add(s.cfg.RunInterval)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) isJobEnabled(jobName string) bool {
	// An empty list enables every job (monolith mode).
	if len(s.cfg.EnabledJobs) == 0 {
		return true
	}
	for _, enabled := range s.cfg.EnabledJobs {
		if strings.EqualFold(enabled, jobName) {
			return true
		}
	}
	return false
}

// FollowUpDueJob reports pending follow-ups whose contact time falls inside
// the lookahead window, per company.
func (s *Scheduler) FollowUpDueJob(ctx context.Context) error {
	now := s.clock.Now().UTC()
	lookahead := s.business.Get().Scheduler.FollowUpLookahead
	if lookahead <= 0 {
		lookahead = config.DefaultBusinessConfig().Scheduler.FollowUpLookahead
	}

	counts, err := s.followUpRepo.CountDueByCompany(ctx, s.db, now, now.Add(lookahead))
	if err != nil {
		s.logJobError(ctx, "scheduler.follow_ups.count_failed", err)
		return err
	}

	run := currentRun(ctx)
	var total int64
	for companyID, count := range counts {
		total += count
		run.Count(companyID, count)
		s.logger(ctx).Info("scheduler.follow_ups.due",
			zap.String("company_id", companyID.String()),
			zap.Int64("count", count),
			zap.Duration("lookahead", lookahead),
		)
	}
	s.metrics.SetFollowUpsDue(total)
	return nil
}

// OccupationOverdueJob counts in-progress occupations past their expected end.
func (s *Scheduler) OccupationOverdueJob(ctx context.Context) error {
	now := s.clock.Now().UTC()
	count, err := s.spaceRepo.CountOverdue(ctx, s.db, now)
	if err != nil {
		s.logJobError(ctx, "scheduler.occupations.count_failed", err)
		return err
	}
	s.metrics.SetOccupationsOverdue(count)
	if count > 0 {
		s.logger(ctx).Warn("scheduler.occupations.overdue", zap.Int64("count", count))
	}
	currentRun(ctx).Count(0, count)
	return nil
}
