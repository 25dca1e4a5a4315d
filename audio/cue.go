package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// CueType selects a synthesized gameplay cue
type CueType int

const (
	CueHit CueType = iota
	CueExpire
	CueSpawn
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates raw audio waves
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a finite oscillator streamer
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, false
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase = o.phase - math.Floor(o.phase) // keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope wraps a streamer with attack/release volume shaping
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := total - att - rel
	if sus < 0 {
		sus = 0
	}

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, false
		}

		var vol float64 = 1.0

		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			remaining := e.totalSamples - e.position
			vol = float64(remaining) / float64(e.releaseSamples)
			if vol < 0 {
				vol = 0
			}
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps a streamer with a safe volume effect.
// math.Log2(0) is -Inf, so zero volume switches to silent instead.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// CreateHitSound generates a short harsh buzz for proximity hits
func CreateHitSound(rate beep.SampleRate) beep.Streamer {
	osc := NewOscillator(110.0, 120*time.Millisecond, WaveSaw, rate)
	shaped := NewEnvelope(osc, 120*time.Millisecond, 5*time.Millisecond, 60*time.Millisecond, rate)
	return newVolume(shaped, 0.5)
}

// CreateExpireSound generates a soft noise fizzle for lifetime expiry
func CreateExpireSound(rate beep.SampleRate) beep.Streamer {
	noise := NewOscillator(0, 90*time.Millisecond, WaveNoise, rate)
	shaped := NewEnvelope(noise, 90*time.Millisecond, 2*time.Millisecond, 70*time.Millisecond, rate)
	return newVolume(shaped, 0.25)
}

// CreateSpawnSound generates a two-note blip for actor spawns
func CreateSpawnSound(rate beep.SampleRate) beep.Streamer {
	n1 := NewOscillator(880.0, 40*time.Millisecond, WaveSquare, rate)
	n1Shaped := NewEnvelope(n1, 40*time.Millisecond, 2*time.Millisecond, 15*time.Millisecond, rate)

	n2 := NewOscillator(1318.51, 50*time.Millisecond, WaveSquare, rate)
	n2Shaped := NewEnvelope(n2, 50*time.Millisecond, 2*time.Millisecond, 25*time.Millisecond, rate)

	return newVolume(beep.Seq(n1Shaped, n2Shaped), 0.3)
}

// CueStreamer returns the streamer for a cue type
func CueStreamer(cue CueType, rate beep.SampleRate) beep.Streamer {
	switch cue {
	case CueHit:
		return CreateHitSound(rate)
	case CueExpire:
		return CreateExpireSound(rate)
	case CueSpawn:
		return CreateSpawnSound(rate)
	default:
		return nil
	}
}
