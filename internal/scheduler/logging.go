package scheduler

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	obscontext "github.com/smallbiznis/washdesk/internal/observability/context"
	obslogger "github.com/smallbiznis/washdesk/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/washdesk/internal/observability/metrics"
	"go.uber.org/zap"
)

// jobRun tallies one execution of a job for its finish line.
type jobRun struct {
	job       string
	runID     string
	startedAt time.Time
	processed int64
	companies map[snowflake.ID]struct{}
	errors    int
}

type jobRunKey struct{}

// Count adds n processed rows, attributing them to companyID when it is set.
func (r *jobRun) Count(companyID snowflake.ID, n int64) {
	if r == nil || n <= 0 {
		return
	}
	r.processed += n
	if companyID != 0 {
		r.companies[companyID] = struct{}{}
	}
}

func (r *jobRun) Failed() {
	if r != nil {
		r.errors++
	}
}

func (s *Scheduler) newJobRun(ctx context.Context, job string) (context.Context, *jobRun) {
	run := &jobRun{
		job:       job,
		runID:     ulid.Make().String(),
		startedAt: time.Now(),
		companies: make(map[snowflake.ID]struct{}),
	}
	ctx = context.WithValue(ctx, jobRunKey{}, run)
	ctx = obscontext.WithActor(ctx, "system", "scheduler")
	ctx = obscontext.WithRequestID(ctx, run.runID)
	return ctx, run
}

func currentRun(ctx context.Context) *jobRun {
	run, _ := ctx.Value(jobRunKey{}).(*jobRun)
	return run
}

func (s *Scheduler) logger(ctx context.Context) *zap.Logger {
	return obslogger.WithContext(ctx, s.log)
}

func (s *Scheduler) logJobFinish(ctx context.Context, run *jobRun) {
	log := s.logger(ctx)
	fields := []zap.Field{
		zap.String("job", run.job),
		zap.Int64("duration_ms", time.Since(run.startedAt).Milliseconds()),
		zap.Int64("processed", run.processed),
		zap.Int("companies", len(run.companies)),
		zap.Int("errors", run.errors),
	}
	if run.errors > 0 {
		log.Warn("scheduler.job.finish", fields...)
		return
	}
	if run.processed == 0 {
		log.Debug("scheduler.job.finish", fields...)
		return
	}
	log.Info("scheduler.job.finish", fields...)
}

func (s *Scheduler) logJobError(ctx context.Context, msg string, err error) {
	if err == nil {
		return
	}
	run := currentRun(ctx)
	run.Failed()

	job := ""
	if run != nil {
		job = run.job
	}
	s.logger(ctx).Error(msg,
		zap.String("job", job),
		zap.String("error_type", obsmetrics.ClassifySchedulerJobReason(err)),
		zap.Bool("retryable", obsmetrics.IsSchedulerErrorRetryable(err)),
		zap.Error(err),
	)
}
