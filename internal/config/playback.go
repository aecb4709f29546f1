package config

import (
	"time"

	"github.com/vancomm/chainreaction-server/internal/session"
)

var defaultTimings = session.Timings{
	Activation: 220 * time.Millisecond,
	RayTravel:  260 * time.Millisecond,
	Hit:        140 * time.Millisecond,
	WaveGap:    90 * time.Millisecond,
}

// NewTimings reads the playback pacing from PLAYBACK_*_MS variables.
func NewTimings() (session.Timings, error) {
	var (
		t   session.Timings
		err error
	)
	if t.Activation, err = lookupMillis("PLAYBACK_ACTIVATION_MS", defaultTimings.Activation); err != nil {
		return t, err
	}
	if t.RayTravel, err = lookupMillis("PLAYBACK_RAY_MS", defaultTimings.RayTravel); err != nil {
		return t, err
	}
	if t.Hit, err = lookupMillis("PLAYBACK_HIT_MS", defaultTimings.Hit); err != nil {
		return t, err
	}
	if t.WaveGap, err = lookupMillis("PLAYBACK_WAVE_GAP_MS", defaultTimings.WaveGap); err != nil {
		return t, err
	}
	return t, nil
}
