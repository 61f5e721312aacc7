package scheduler

import (
	"strings"
	"time"

	"github.com/smallbiznis/washdesk/internal/config"
)

const (
	JobFollowUpDue       = "follow_up_due"
	JobOccupationOverdue = "occupation_overdue"
)

// Config controls scheduler intervals. The follow-up lookahead is read from
// the business config on every run so edits to washdesk.yml apply live.
type Config struct {
	RunInterval time.Duration
	JobTimeout  time.Duration
	// LockTTL bounds the redis lease held while a job runs.
	LockTTL     time.Duration
	EnabledJobs []string
}

func DefaultConfig() Config {
	return Config{
		RunInterval: time.Minute,
		JobTimeout:  30 * time.Second,
		LockTTL:     45 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	if c.LockTTL < c.JobTimeout {
		c.LockTTL = c.JobTimeout + 15*time.Second
	}
	return c
}

func ProvideConfig(appCfg config.Config, business *config.BusinessConfigHolder) Config {
	cfg := DefaultConfig()
	cfg.RunInterval = business.Get().Scheduler.RunInterval
	cfg.EnabledJobs = ParseJobs(appCfg.SchedulerJobs)
	return cfg.withDefaults()
}

// ParseJobs splits a comma separated job list such as SCHEDULER_JOBS.
func ParseJobs(raw string) []string {
	var jobs []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			jobs = append(jobs, part)
		}
	}
	return jobs
}
