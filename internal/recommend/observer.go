package recommend

import (
	"gamerec/internal/metrics"

	"github.com/rs/zerolog"
)

type Stage string

const (
	StageAdvanced Stage = "advanced"
	StageBroaden  Stage = "broaden"
	StageSimple   Stage = "simple"
)

type EventKind string

const (
	EventStart EventKind = "start"
	EventEnd   EventKind = "end"
)

// StageEvent is emitted on every pipeline transition. Items is only set on
// end events.
type StageEvent struct {
	Stage Stage     `json:"stage"`
	Kind  EventKind `json:"kind"`
	Items int       `json:"items"`
	Err   error     `json:"-"`
}

// Observer receives stage transitions. Implementations must be safe for
// concurrent use and must not block for long.
type Observer interface {
	OnStage(ev StageEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev StageEvent)

func (f ObserverFunc) OnStage(ev StageEvent) { f(ev) }

// Observers fans an event out to several observers in order.
type Observers []Observer

func (o Observers) OnStage(ev StageEvent) {
	for _, obs := range o {
		if obs != nil {
			obs.OnStage(ev)
		}
	}
}

// LogObserver writes stage transitions to a zerolog logger.
type LogObserver struct {
	Logger zerolog.Logger
}

func (l LogObserver) OnStage(ev StageEvent) {
	e := l.Logger.Debug()
	if ev.Err != nil {
		e = l.Logger.Warn().Err(ev.Err)
	} else if ev.Stage == StageSimple && ev.Kind == EventStart {
		e = l.Logger.Info()
	}
	if ev.Kind == EventEnd {
		e = e.Int("items", ev.Items)
	}
	e.Str("stage", string(ev.Stage)).Str("event", string(ev.Kind)).Msg("recommend stage")
}

// MetricsObserver counts stage transitions in Prometheus.
type MetricsObserver struct{}

func (MetricsObserver) OnStage(ev StageEvent) {
	outcome := "ok"
	if ev.Err != nil {
		outcome = "error"
	}
	metrics.RecommendStages.WithLabelValues(string(ev.Stage), string(ev.Kind), outcome).Inc()
}
