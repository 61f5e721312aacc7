package config

import (
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// BusinessConfig carries tunables that operators may change without a restart.
type BusinessConfig struct {
	Dashboard  DashboardConfig  `mapstructure:"dashboard"`
	Pagination PaginationConfig `mapstructure:"pagination"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
}

type DashboardConfig struct {
	TopClients int    `mapstructure:"topClients"`
	PlanLabel  string `mapstructure:"planLabel"`
}

type PaginationConfig struct {
	DefaultPerPage int `mapstructure:"defaultPerPage"`
	MaxPerPage     int `mapstructure:"maxPerPage"`
}

type SchedulerConfig struct {
	FollowUpLookahead time.Duration `mapstructure:"followUpLookahead"`
	RunInterval       time.Duration `mapstructure:"runInterval"`
}

func DefaultBusinessConfig() BusinessConfig {
	return BusinessConfig{
		Dashboard: DashboardConfig{
			TopClients: 5,
			PlanLabel:  "Teste grátis",
		},
		Pagination: PaginationConfig{
			DefaultPerPage: 20,
			MaxPerPage:     100,
		},
		Scheduler: SchedulerConfig{
			FollowUpLookahead: 24 * time.Hour,
			RunInterval:       time.Minute,
		},
	}
}

type BusinessConfigHolder struct {
	current atomic.Value // holds BusinessConfig
}

// NewStaticBusinessConfigHolder pins a config without watching any file.
func NewStaticBusinessConfigHolder(cfg BusinessConfig) *BusinessConfigHolder {
	holder := &BusinessConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewBusinessConfigHolder(log *zap.Logger) (*BusinessConfigHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("business.config")

	v := viper.New()

	v.SetConfigName("washdesk")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/washdesk")
	v.AddConfigPath(".")

	v.SetEnvPrefix("WASHDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultBusinessConfig()
	v.SetDefault("business.dashboard.topClients", defaults.Dashboard.TopClients)
	v.SetDefault("business.dashboard.planLabel", defaults.Dashboard.PlanLabel)
	v.SetDefault("business.pagination.defaultPerPage", defaults.Pagination.DefaultPerPage)
	v.SetDefault("business.pagination.maxPerPage", defaults.Pagination.MaxPerPage)
	v.SetDefault("business.scheduler.followUpLookahead", defaults.Scheduler.FollowUpLookahead)
	v.SetDefault("business.scheduler.runInterval", defaults.Scheduler.RunInterval)

	watch := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		watch = false
	}

	var cfg BusinessConfig
	if err := v.UnmarshalKey("business", &cfg); err != nil {
		return nil, err
	}
	if err := validateBusinessConfig(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticBusinessConfigHolder(cfg)
	if !watch {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated BusinessConfig
		if err := v.UnmarshalKey("business", &updated); err != nil {
			log.Warn("reload failed", zap.Error(err))
			return
		}
		if err := validateBusinessConfig(updated); err != nil {
			log.Warn("invalid config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *BusinessConfigHolder) Get() BusinessConfig {
	if h == nil {
		return DefaultBusinessConfig()
	}
	cfg, ok := h.current.Load().(BusinessConfig)
	if !ok {
		return DefaultBusinessConfig()
	}
	return cfg
}

func validateBusinessConfig(cfg BusinessConfig) error {
	if cfg.Dashboard.TopClients <= 0 {
		return errors.New("business.dashboard.topClients must be positive")
	}
	if cfg.Pagination.DefaultPerPage <= 0 || cfg.Pagination.MaxPerPage <= 0 {
		return errors.New("business.pagination values must be positive")
	}
	if cfg.Pagination.DefaultPerPage > cfg.Pagination.MaxPerPage {
		return errors.New("business.pagination.defaultPerPage exceeds maxPerPage")
	}
	if cfg.Scheduler.FollowUpLookahead <= 0 {
		return errors.New("business.scheduler.followUpLookahead must be positive")
	}
	return nil
}
