package services

import "github.com/jcmacallan-svg/ww1/internal/config"

// Config carries the planner's tunable margins. Both values are
// approximation knobs with no deeper derivation; they exist so days are
// not packed to the exact minute.
type Config struct {
	// SafetyBufferMinutes is subtracted from the remaining day budget
	// before a candidate stop is accepted.
	SafetyBufferMinutes int
	// FirstStopGraceMinutes lets the first stop of a day exceed the
	// budget by a small margin instead of demanding the safety buffer,
	// so a reasonable first stop is not rejected outright.
	FirstStopGraceMinutes int
}

// DefaultConfig returns the stock planner margins.
func DefaultConfig() Config {
	return Config{
		SafetyBufferMinutes:   30,
		FirstStopGraceMinutes: 45,
	}
}

// ConfigFromEnv reads the planner margins from the environment, keeping
// the defaults for anything unset.
func ConfigFromEnv() Config {
	d := DefaultConfig()
	return Config{
		SafetyBufferMinutes:   config.GetInt("PLANNER_SAFETY_BUFFER_MIN", d.SafetyBufferMinutes),
		FirstStopGraceMinutes: config.GetInt("PLANNER_FIRST_STOP_GRACE_MIN", d.FirstStopGraceMinutes),
	}
}
