package service

import "github.com/rs/zerolog"

// Observer получает трассировку группировки. На результат не влияет.
type Observer interface {
	// Scored — оценка кластера аналогов против якоря.
	Scored(cluster, anchor string, score float64)
	// Attached — кластер привязан к якорю.
	Attached(cluster, anchor string, score, threshold float64, virtual bool)
	// Created — создан виртуальный якорь.
	Created(cluster, label, reason string)
	// Flat — включён плоский режим (одно основное наименование на все источники).
	Flat(name string, records int)
}

// NopObserver ничего не делает.
type NopObserver struct{}

func (NopObserver) Scored(string, string, float64) {}
func (NopObserver) Attached(string, string, float64, float64, bool) {}
func (NopObserver) Created(string, string, string) {}
func (NopObserver) Flat(string, int) {}

// ZerologObserver пишет трассировку в лог: оценки на trace, решения на debug.
type ZerologObserver struct {
	Logger zerolog.Logger
}

func (o ZerologObserver) Scored(cluster, anchor string, score float64) {
	o.Logger.Trace().
		Str("cluster", cluster).
		Str("anchor", anchor).
		Float64("score", score).
		Msg("match score")
}

func (o ZerologObserver) Attached(cluster, anchor string, score, threshold float64, virtual bool) {
	o.Logger.Debug().
		Str("cluster", cluster).
		Str("anchor", anchor).
		Float64("score", score).
		Float64("threshold", threshold).
		Bool("virtual", virtual).
		Msg("analog attached")
}

func (o ZerologObserver) Created(cluster, label, reason string) {
	o.Logger.Debug().
		Str("cluster", cluster).
		Str("label", label).
		Str("reason", reason).
		Msg("virtual anchor created")
}

func (o ZerologObserver) Flat(name string, records int) {
	o.Logger.Debug().
		Str("name", name).
		Int("records", records).
		Msg("single main product, flat mode")
}
