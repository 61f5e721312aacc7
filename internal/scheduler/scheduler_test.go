package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/smallbiznis/washdesk/internal/clock"
	"github.com/smallbiznis/washdesk/internal/config"
	followupdomain "github.com/smallbiznis/washdesk/internal/followup/domain"
	followuprepo "github.com/smallbiznis/washdesk/internal/followup/repository"
	obsmetrics "github.com/smallbiznis/washdesk/internal/observability/metrics"
	spacedomain "github.com/smallbiznis/washdesk/internal/space/domain"
	spacerepo "github.com/smallbiznis/washdesk/internal/space/repository"
	"github.com/smallbiznis/washdesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	sched    *Scheduler
	db       *gorm.DB
	node     *snowflake.Node
	registry *prometheus.Registry
}

func newFixture(t *testing.T, cfg Config) fixture {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	conn := db.NewTest(t, &followupdomain.FollowUp{}, &spacedomain.SpaceOccupation{})

	registry := prometheus.NewRegistry()
	m := obsmetrics.ResetSchedulerMetricsForTest(registry)

	sched, err := New(Params{
		DB:           conn,
		Log:          zap.NewNop(),
		Clock:        clock.NewFakeClock(testNow),
		FollowUpRepo: followuprepo.Provide(),
		SpaceRepo:    spacerepo.Provide(),
		Business: config.NewStaticBusinessConfigHolder(config.BusinessConfig{
			Scheduler: config.SchedulerConfig{FollowUpLookahead: 6 * time.Hour, RunInterval: time.Minute},
		}),
		Metrics: m,
		Config:  cfg,
	})
	require.NoError(t, err)
	return fixture{sched: sched, db: conn, node: node, registry: registry}
}

func (f fixture) followUp(t *testing.T, companyID snowflake.ID, contactAt time.Time, status followupdomain.Status) {
	t.Helper()
	fu := followupdomain.FollowUp{
		ID:        f.node.Generate(),
		CompanyID: companyID,
		ClientID:  f.node.Generate(),
		ContactAt: contactAt,
		Status:    status,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	require.NoError(t, f.db.Omit(clause.Associations).Create(&fu).Error)
}

func (f fixture) occupation(t *testing.T, expectedEnd *time.Time, status spacedomain.OccupationStatus) {
	t.Helper()
	occ := spacedomain.SpaceOccupation{
		ID:            f.node.Generate(),
		CompanyID:     f.node.Generate(),
		SpaceID:       f.node.Generate(),
		StartedAt:     testNow.Add(-4 * time.Hour),
		ExpectedEndAt: expectedEnd,
		Status:        status,
		CreatedAt:     testNow,
		UpdatedAt:     testNow,
	}
	require.NoError(t, f.db.Omit(clause.Associations).Create(&occ).Error)
}

func TestRunOnceRefreshesGauges(t *testing.T) {
	f := newFixture(t, Config{})
	companyA := f.node.Generate()
	companyB := f.node.Generate()

	f.followUp(t, companyA, testNow.Add(time.Hour), followupdomain.StatusPending)
	f.followUp(t, companyA, testNow.Add(5*time.Hour), followupdomain.StatusPending)
	f.followUp(t, companyB, testNow.Add(2*time.Hour), followupdomain.StatusPending)
	f.followUp(t, companyB, testNow.Add(2*time.Hour), followupdomain.StatusDone)
	f.followUp(t, companyB, testNow.Add(7*time.Hour), followupdomain.StatusPending)
	f.followUp(t, companyB, testNow.Add(-time.Hour), followupdomain.StatusPending)

	past := testNow.Add(-30 * time.Minute)
	future := testNow.Add(30 * time.Minute)
	f.occupation(t, &past, spacedomain.OccupationInProgress)
	f.occupation(t, &past, spacedomain.OccupationCompleted)
	f.occupation(t, &future, spacedomain.OccupationInProgress)
	f.occupation(t, nil, spacedomain.OccupationInProgress)

	require.NoError(t, f.sched.RunOnce(context.Background()))

	assert.Equal(t, float64(3), gaugeValue(t, f.registry, "washdesk_follow_ups_due"))
	assert.Equal(t, float64(1), gaugeValue(t, f.registry, "washdesk_occupations_overdue"))
	assert.Equal(t, float64(1), counterValue(t, f.registry, "washdesk_scheduler_job_runs_total", JobFollowUpDue))
	assert.Equal(t, float64(1), counterValue(t, f.registry, "washdesk_scheduler_job_runs_total", JobOccupationOverdue))

	var pending int64
	require.NoError(t, f.db.Model(&followupdomain.FollowUp{}).Where("status = ?", followupdomain.StatusPending).Count(&pending).Error)
	assert.Equal(t, int64(5), pending)
}

func TestEnabledJobsFilter(t *testing.T) {
	f := newFixture(t, Config{EnabledJobs: ParseJobs(" occupation_overdue , ")})
	require.NoError(t, f.sched.RunOnce(context.Background()))

	assert.Equal(t, float64(1), counterValue(t, f.registry, "washdesk_scheduler_job_runs_total", JobOccupationOverdue))
	assert.Zero(t, counterValue(t, f.registry, "washdesk_scheduler_job_runs_total", JobFollowUpDue))
}

func TestRunJobTimeoutIsSoft(t *testing.T) {
	f := newFixture(t, Config{})
	err := f.sched.runJob(context.Background(), "timeout_job", 5*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.NoError(t, err)
	assert.Equal(t, float64(1), counterValue(t, f.registry, "washdesk_scheduler_job_timeouts_total", "timeout_job"))

	err = f.sched.runJob(context.Background(), "failing_job", time.Second, func(context.Context) error {
		return errors.New("boom")
	})
	assert.EqualError(t, err, "failing_job: boom")
}

func TestNewRejectsMissingDependencies(t *testing.T) {
	_, err := New(Params{Log: zap.NewNop()})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func gaugeValue(t *testing.T, registry *prometheus.Registry, name string) float64 {
	t.Helper()
	metric := findMetric(t, registry, name, "")
	require.NotNil(t, metric, "metric %s not found", name)
	return metric.GetGauge().GetValue()
}

func counterValue(t *testing.T, registry *prometheus.Registry, name, job string) float64 {
	t.Helper()
	metric := findMetric(t, registry, name, job)
	if metric == nil {
		return 0
	}
	return metric.GetCounter().GetValue()
}

func findMetric(t *testing.T, registry *prometheus.Registry, name, job string) *dto.Metric {
	t.Helper()
	families, err := registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.Metric {
			if job == "" || labelValue(metric, "job") == job {
				return metric
			}
		}
	}
	return nil
}

func labelValue(metric *dto.Metric, name string) string {
	for _, label := range metric.Label {
		if label.GetName() == name {
			return label.GetValue()
		}
	}
	return ""
}
