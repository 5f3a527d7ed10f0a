// Package config centralizes the engine's process-wide knobs (spec §6).
// Defaults match the specification; each can be overridden via environment
// variable using github.com/ilyakaznacheev/cleanenv, the same env-driven
// config pattern used across the retrieved example pack.
package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Knobs holds every process-wide tunable the engine's stages read from.
type Knobs struct {
	ConcurrencyCap         int           `env:"TRIP_CONCURRENCY_CAP" env-default:"3"`
	RetryCount             int           `env:"TRIP_RETRY_COUNT" env-default:"3"`
	BackoffBase            time.Duration `env:"TRIP_BACKOFF_BASE" env-default:"200ms"`
	BreakerThreshold       int           `env:"TRIP_BREAKER_THRESHOLD" env-default:"5"`
	BreakerTimeout         time.Duration `env:"TRIP_BREAKER_TIMEOUT" env-default:"30s"`
	CacheSize              int           `env:"TRIP_CACHE_SIZE" env-default:"5000"`
	CacheTTL               time.Duration `env:"TRIP_CACHE_TTL" env-default:"60m"`
	CacheSweepInterval     time.Duration `env:"TRIP_CACHE_SWEEP" env-default:"10m"`
	WalkModeCutoffMeters   float64       `env:"TRIP_WALK_CUTOFF_M" env-default:"700"`
	KNNK                   int           `env:"TRIP_KNN_K" env-default:"3"`
	RadiusMultiplier       float64       `env:"TRIP_RADIUS_MULT" env-default:"1.2"`
	ClusterFlexibility     float64       `env:"TRIP_CLUSTER_FLEX" env-default:"0.4"` // ±40%
	ReconciliationRounds   int           `env:"TRIP_RECONCILE_ROUNDS" env-default:"3"`
	MaxProxyRemovalFrac    float64       `env:"TRIP_MAX_PROXY_REMOVAL_FRAC" env-default:"0.5"`
	OverloadSizePenalty    float64       `env:"TRIP_OVERLOAD_SIZE_PENALTY" env-default:"5"`
	OverloadMinutesPenalty float64       `env:"TRIP_OVERLOAD_MINUTES_PENALTY" env-default:"1"`
	SmoothingPasses        int           `env:"TRIP_SMOOTHING_PASSES" env-default:"5"`
	SmoothingThresholdM    float64       `env:"TRIP_SMOOTHING_THRESHOLD_M" env-default:"100"`
	TwoOptMaxIterations    int           `env:"TRIP_TWO_OPT_MAX_ITER" env-default:"50"`
	RequestTimeout         time.Duration `env:"TRIP_REQUEST_TIMEOUT" env-default:"15s"`
}

// Default returns the knobs filled from each field's env-default tag. It
// goes through cleanenv.ReadEnv, so any of the environment variables that
// are set are applied as well; unlike Load, it discards ReadEnv's error.
func Default() Knobs {
	var k Knobs
	_ = cleanenv.ReadEnv(&k)
	return k
}

// Load returns the knobs with any set environment variables applied over the defaults.
func Load() (Knobs, error) {
	var k Knobs
	if err := cleanenv.ReadEnv(&k); err != nil {
		return Knobs{}, err
	}
	return k, nil
}
