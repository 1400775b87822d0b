// Package audio sonifies a running simulation. Contacts trigger plucked
// voices whose pitch tracks the hit's strength, and the world's kinetic
// energy opens a low-pass filter, so busy scenes sound bright and
// settling ones fade dark. Output only; nothing is recorded.
package audio

import (
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	SampleRate = 44100
	BufferSize = 1024

	// maxVoices caps polyphony; past it the quietest voice is stolen.
	maxVoices = 12

	// minImpulse gates resting contacts, which arrive every frame and
	// would otherwise re-pluck forever.
	minImpulse = 0.2
)

// notes is a G minor pentatonic spread over two octaves. Harder hits
// index higher.
var notes = []float64{98.00, 116.54, 146.83, 174.61, 220.00, 233.08, 293.66, 349.23, 440.00}

// Voice is one decaying pluck.
type Voice struct {
	freq  float64
	phase float64
	amp   float64
	decay float64
	pan   float64
}

// Processor owns the output stream and the synthesis state. Start opens
// the default stereo device; OnContact and UpdateEnergy are safe to call
// from the simulation loop while the callback runs.
type Processor struct {
	Stream *portaudio.Stream
	Active bool

	mu          sync.Mutex
	voices      []Voice
	totalEnergy float64

	energySmooth float64
	time         float64
	filterState  [2]float64
	delayLine    [2][]float64
	delayHead    int
}

func NewProcessor() *Processor {
	// 0.6 s delay line reads as a large room
	delayLen := int(float64(SampleRate) * 0.6)

	return &Processor{
		voices:    make([]Voice, 0, maxVoices),
		delayLine: [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
	}
}

// Start opens the default output device. Output only: duplex streams
// fail on machines whose input and output devices disagree on rates.
func (p *Processor) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, p.processAudio)
	if err != nil {
		portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return err
	}

	p.Stream = stream
	p.Active = true
	return nil
}

func (p *Processor) Stop() {
	if p.Stream != nil {
		p.Stream.Stop()
		p.Stream.Close()
		p.Stream = nil
	}
	portaudio.Terminate()
	p.Active = false
}

// OnContact plucks a voice for one resolved contact. impulse is the
// approach speed the resolver killed; gentle resting contacts stay
// silent.
func (p *Processor) OnContact(impulse float64) {
	if impulse < minImpulse {
		return
	}

	v := pluckVoice(impulse)

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.voices) < maxVoices {
		p.voices = append(p.voices, v)
		return
	}

	quietest := 0
	for i := 1; i < len(p.voices); i++ {
		if p.voices[i].amp < p.voices[quietest].amp {
			quietest = i
		}
	}
	p.voices[quietest] = v
}

// UpdateEnergy feeds the world's kinetic energy to the filter control.
func (p *Processor) UpdateEnergy(energy float64) {
	p.mu.Lock()
	p.totalEnergy = energy
	p.mu.Unlock()
}

// pluckVoice maps a hit to a voice: pitch climbs the scale with impulse
// strength, loudness follows it with a cap.
func pluckVoice(impulse float64) Voice {
	idx := int(impulse * 0.6)
	if idx >= len(notes) {
		idx = len(notes) - 1
	}

	amp := 0.1 + 0.04*impulse
	if amp > 0.4 {
		amp = 0.4
	}

	return Voice{
		freq:  notes[idx],
		amp:   amp,
		decay: 0.99993,
		pan:   0.3 + 0.4*float64(idx)/float64(len(notes)-1),
	}
}

// triangle is a cosine-phased triangle wave: smooth, flute-like, no
// harsh buzz.
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// lpf is a one-pole low pass.
func lpf(sample, cutoff, dt, state float64) (float64, float64) {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	out := state + alpha*(sample-state)
	return out, out
}

func (p *Processor) processAudio(out [][]float32) {
	p.synthesize(out[0], out[1])
}

// synthesize fills one stereo block from the live voices.
func (p *Processor) synthesize(left, right []float32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// slow morph keeps the filter from jumping between frames
	p.energySmooth = p.energySmooth*0.995 + p.totalEnergy*0.005

	cutoff := 250.0 + math.Min(p.energySmooth*3.0, 3000.0)
	dt := 1.0 / float64(SampleRate)
	const vol = 0.3

	for i := 0; i < len(left); i++ {
		sampleL := 0.0
		sampleR := 0.0

		for v := range p.voices {
			voice := &p.voices[v]
			s := triangle(voice.phase) * voice.amp
			sampleL += s * (1.0 - voice.pan)
			sampleR += s * voice.pan

			voice.phase += voice.freq * dt
			voice.amp *= voice.decay
		}

		var outL, outR float64
		outL, p.filterState[0] = lpf(sampleL, cutoff, dt, p.filterState[0])
		outR, p.filterState[1] = lpf(sampleR, cutoff, dt, p.filterState[1])

		// ping-pong delay: each side hears a little of the other's tail
		delayL := p.delayLine[0][p.delayHead]
		delayR := p.delayLine[1][p.delayHead]

		mixL := outL + delayL*0.3 + delayR*0.1
		mixR := outR + delayR*0.3 + delayL*0.1

		p.delayLine[0][p.delayHead] = mixL * 0.6
		p.delayLine[1][p.delayHead] = mixR * 0.6

		p.delayHead = (p.delayHead + 1) % len(p.delayLine[0])

		left[i] = float32(mixL * vol)
		right[i] = float32(mixR * vol)

		p.time += dt
	}

	// drop voices that have decayed to silence
	live := p.voices[:0]
	for _, v := range p.voices {
		if v.amp >= 1e-3 {
			live = append(live, v)
		}
	}
	p.voices = live
}
