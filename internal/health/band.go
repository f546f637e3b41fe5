// internal/health/band.go
package health

import "errors"

// band is where a reading sits relative to its thresholds.
type band uint8

const (
	bandNominal band = iota
	bandWarnLow
	bandShutLow
	bandWarnHigh
	bandShutHigh
)

func (b band) String() string {
	switch b {
	case bandNominal:
		return "nominal"
	case bandWarnLow:
		return "warn-low"
	case bandShutLow:
		return "shut-low"
	case bandWarnHigh:
		return "warn-high"
	case bandShutHigh:
		return "shut-high"
	default:
		return "unknown"
	}
}

func (b band) shutdown() bool {
	return b == bandShutLow || b == bandShutHigh
}

// limits is the generic threshold geometry shared by voltage and
// temperature checks.
type limits struct {
	shutLow  int32
	warnLow  int32
	warnHigh int32
	shutHigh int32
	hyst     int32
}

func (l limits) validate() error {
	if l.hyst <= 0 {
		return errors.New("hysteresis must be > 0")
	}
	if l.shutLow >= l.warnLow {
		return errors.New("low shutdown must be stricter than low warning")
	}
	if l.shutHigh <= l.warnHigh {
		return errors.New("high shutdown must be stricter than high warning")
	}
	if l.warnLow >= l.warnHigh {
		return errors.New("warning band is empty")
	}
	return nil
}

// rawBand places a reading with no memory of past state.
func rawBand(v int32, l limits) band {
	switch {
	case v > l.shutHigh:
		return bandShutHigh
	case v > l.warnHigh:
		return bandWarnHigh
	case v < l.shutLow:
		return bandShutLow
	case v < l.warnLow:
		return bandWarnLow
	default:
		return bandNominal
	}
}

// nextBand applies hysteresis: once a boundary has been crossed, the
// band downgrades only after the reading returns to within hyst of the
// nominal side of that boundary. Upgrades and side switches are
// immediate. This is the anti-chatter contract: re-entering the
// warning band does not clear a shutdown fault.
func nextBand(prev band, v int32, l limits) band {
	raw := rawBand(v, l)
	if raw == prev {
		return prev
	}

	switch prev {
	case bandShutHigh:
		if v > l.shutHigh-l.hyst {
			return bandShutHigh
		}
	case bandWarnHigh:
		if raw == bandShutHigh {
			return raw
		}
		if v > l.warnHigh-l.hyst {
			return bandWarnHigh
		}
	case bandShutLow:
		if v < l.shutLow+l.hyst {
			return bandShutLow
		}
	case bandWarnLow:
		if raw == bandShutLow {
			return raw
		}
		if v < l.warnLow+l.hyst {
			return bandWarnLow
		}
	}
	return raw
}
