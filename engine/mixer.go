package engine

import (
	"sync/atomic"

	"mixdown"

	"mixdown/dsp"
)

// Messages from the Graph (control side) to the Mixer. The mixer drains
// them once per quantum, which is what makes every control change commit
// atomically at a quantum boundary - a fader move can never produce a
// mid-block discontinuity.
type (
	attachMsg struct{ chain *chain }

	detachMsg struct{ id mixdown.TrackID }

	startMsg struct {
		id           mixdown.TrackID
		offsetFrames int64
	}

	stopMsg struct{ id mixdown.TrackID }

	stopAllMsg struct{}

	gainMsg struct {
		id    mixdown.TrackID
		level float32
	}

	panMsg struct {
		id       mixdown.TrackID
		position float64
	}

	eqMsg struct {
		id    mixdown.TrackID
		gains dsp.EQGains
	}

	regionsMsg struct {
		id      mixdown.TrackID
		regions []mixdown.Region
	}

	masterGainMsg struct{ level float32 }

	masterEQMsg struct{ gains dsp.EQGains }

	limiterMsg struct{ ceiling float32 }

	teardownMsg struct{}
)

// Mixer is the render side of the engine. It implements
// mixdown.AudioSource, so the output device pulls from it; everything here
// runs on the device's real-time path and must never block on the control
// thread. The frame counter doubles as the device clock the transport
// reckons against.
type Mixer struct {
	broker *Broker
	chains map[mixdown.TrackID]*chain
	master *masterChain

	clock atomic.Int64 // frames rendered since creation
}

func NewMixer(broker *Broker) *Mixer {
	return &Mixer{
		broker: broker,
		chains: make(map[mixdown.TrackID]*chain),
		master: newMasterChain(),
	}
}

// Now returns the device clock in seconds. Safe to call from the control
// thread.
func (m *Mixer) Now() float64 {
	return float64(m.clock.Load()) / mixdown.SampleRate
}

// ReadAudio renders into buf quantum by quantum and always fills it; when
// nothing is playing the output is silence, so the device never starves.
func (m *Mixer) ReadAudio(buf mixdown.AudioBuffer) (int, error) {
	total := len(buf)
	for len(buf) > 0 {
		n := len(buf)
		if n > mixdown.QuantumFrames {
			n = mixdown.QuantumFrames
		}
		m.renderQuantum(buf[:n])
		buf = buf[n:]
	}
	return total, nil
}

func (m *Mixer) renderQuantum(out mixdown.AudioBuffer) {
	m.processMessages()
	out.Zero()
	for _, c := range m.chains {
		if c.playing {
			c.render(out, m.chains)
		}
	}
	m.master.process(out)
	m.clock.Add(int64(len(out)))
	m.sendLevels()
}

func (m *Mixer) processMessages() {
loop:
	for {
		select {
		case msg := <-m.broker.ToMixer:
			switch v := msg.(type) {
			case attachMsg:
				m.chains[v.chain.id] = v.chain
			case detachMsg:
				delete(m.chains, v.id)
			case startMsg:
				if c, ok := m.chains[v.id]; ok {
					c.start(v.offsetFrames)
				}
			case stopMsg:
				if c, ok := m.chains[v.id]; ok {
					c.stop()
				}
			case stopAllMsg:
				for _, c := range m.chains {
					c.stop()
				}
			case gainMsg:
				if c, ok := m.chains[v.id]; ok {
					c.gain.Level = v.level
				}
			case panMsg:
				if c, ok := m.chains[v.id]; ok {
					c.pan.SetPosition(v.position)
				}
			case eqMsg:
				if c, ok := m.chains[v.id]; ok {
					c.eq.SetGains(v.gains)
				}
			case regionsMsg:
				if c, ok := m.chains[v.id]; ok {
					c.regions = v.regions
				}
			case masterGainMsg:
				m.master.gain.Level = v.level
			case masterEQMsg:
				m.master.eq.SetGains(v.gains)
			case limiterMsg:
				m.master.limiter.Ceiling = v.ceiling
			case teardownMsg:
				for _, c := range m.chains {
					c.stop()
				}
				m.chains = make(map[mixdown.TrackID]*chain)
			default:
				// ignore unknown messages
			}
		default:
			break loop
		}
	}
}

// sendLevels pushes the per-quantum meter readings to the model. The send
// is non-blocking; if the model is behind, this quantum's readings are
// simply dropped and it keeps the previous ones.
func (m *Mixer) sendLevels() {
	levels := m.broker.GetLevels()
	for _, c := range m.chains {
		*levels = append(*levels, TrackLevel{ID: c.id, Level: c.level})
	}
	if !TrySend(m.broker.ToModel, MsgToModel{Levels: levels, Master: m.master.level}) {
		m.broker.PutLevels(levels)
	}
}
