package pipeline

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/generic"
)

// Instruments observe a session. Any nil field is replaced by a discarding
// one.
type Instruments struct {
	Ticks        metrics.Counter
	Draws        metrics.Counter
	TickDuration metrics.Histogram
	OffScale     metrics.Gauge
}

func DiscardInstruments() Instruments {
	return Instruments{
		Ticks:        discard.NewCounter(),
		Draws:        discard.NewCounter(),
		TickDuration: discard.NewHistogram(),
		OffScale:     discard.NewGauge(),
	}
}

func (in Instruments) withDefaults() Instruments {
	d := DiscardInstruments()
	if in.Ticks == nil {
		in.Ticks = d.Ticks
	}
	if in.Draws == nil {
		in.Draws = d.Draws
	}
	if in.TickDuration == nil {
		in.TickDuration = d.TickDuration
	}
	if in.OffScale == nil {
		in.OffScale = d.OffScale
	}
	return in
}

// Readout keeps the in-memory instruments so callers can report them.
type Readout struct {
	Ticks        *generic.Counter
	Draws        *generic.Counter
	TickDuration *generic.Histogram
	OffScale     *generic.Gauge
}

// NewReadout builds in-memory instruments.
func NewReadout() *Readout {
	return &Readout{
		Ticks:        generic.NewCounter("gasviz_ticks_total"),
		Draws:        generic.NewCounter("gasviz_draws_total"),
		TickDuration: generic.NewHistogram("gasviz_tick_seconds", 50),
		OffScale:     generic.NewGauge("gasviz_offscale_bars"),
	}
}

func (r *Readout) Instruments() Instruments {
	return Instruments{
		Ticks:        r.Ticks,
		Draws:        r.Draws,
		TickDuration: r.TickDuration,
		OffScale:     r.OffScale,
	}
}
