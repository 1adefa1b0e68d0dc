package wave

import "github.com/TFMV/wavegraph/traveler"

// Observer is notified of wave events as they happen inside the frame tick.
type Observer interface {
	WaveStarted(w *Wave)
	TravelerSpawned(w *Wave, t *traveler.Traveler)
	// TravelerCompleted is called once per traveler. t.Dest reports false for
	// a truncated traveler.
	TravelerCompleted(w *Wave, t *traveler.Traveler)
	WaveRetiring(w *Wave)
	WaveRetired(w *Wave)
}

// NopObserver ignores all events. Embed it to implement part of Observer.
type NopObserver struct{}

func (NopObserver) WaveStarted(*Wave)                           {}
func (NopObserver) TravelerSpawned(*Wave, *traveler.Traveler)   {}
func (NopObserver) TravelerCompleted(*Wave, *traveler.Traveler) {}
func (NopObserver) WaveRetiring(*Wave)                          {}
func (NopObserver) WaveRetired(*Wave)                           {}

type observers []Observer

func (os observers) WaveStarted(w *Wave) {
	for _, o := range os {
		o.WaveStarted(w)
	}
}

func (os observers) TravelerSpawned(w *Wave, t *traveler.Traveler) {
	for _, o := range os {
		o.TravelerSpawned(w, t)
	}
}

func (os observers) TravelerCompleted(w *Wave, t *traveler.Traveler) {
	for _, o := range os {
		o.TravelerCompleted(w, t)
	}
}

func (os observers) WaveRetiring(w *Wave) {
	for _, o := range os {
		o.WaveRetiring(w)
	}
}

func (os observers) WaveRetired(w *Wave) {
	for _, o := range os {
		o.WaveRetired(w)
	}
}
