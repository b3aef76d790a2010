package dsp_test

import (
	"math"
	"testing"

	"mixdown"
	"mixdown/dsp"
)

func constBuffer(n int, value float32) mixdown.AudioBuffer {
	buf := make(mixdown.AudioBuffer, n)
	for i := range buf {
		buf[i] = [2]float32{value, value}
	}
	return buf
}

func closeEnough(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < eps
}

func TestMeterConstantSignal(t *testing.T) {
	var meter dsp.Meter
	level := meter.Measure(constBuffer(1024, 0.5))
	if !closeEnough(level.Peak, 0.5, 1e-4) {
		t.Errorf("peak = %v, want 0.5", level.Peak)
	}
	if !closeEnough(level.RMS, 0.5, 1e-4) {
		t.Errorf("rms = %v, want 0.5 for a constant signal", level.RMS)
	}
}

func TestMeterSilenceAndEmpty(t *testing.T) {
	var meter dsp.Meter
	if level := meter.Measure(constBuffer(256, 0)); level.Peak != 0 || level.RMS != 0 {
		t.Errorf("silence measured as %+v", level)
	}
	if level := meter.Measure(nil); level.Peak != 0 || level.RMS != 0 {
		t.Errorf("empty buffer measured as %+v", level)
	}
}

func TestMeterClampsOverdrive(t *testing.T) {
	var meter dsp.Meter
	level := meter.Measure(constBuffer(64, 2.5))
	if level.Peak != 1 || level.RMS != 1 {
		t.Errorf("overdriven signal measured as %+v, want clamped to 1", level)
	}
}

func TestPanEqualPower(t *testing.T) {
	pan := dsp.NewPan()
	buf := constBuffer(1, 1)
	pan.Process(buf)
	center := float32(math.Sqrt2 / 2)
	if !closeEnough(buf[0][0], center, 1e-4) || !closeEnough(buf[0][1], center, 1e-4) {
		t.Errorf("center pan = %v, want both channels at %v", buf[0], center)
	}
	pan.SetPosition(-1)
	buf = constBuffer(1, 1)
	pan.Process(buf)
	if !closeEnough(buf[0][0], 1, 1e-4) || !closeEnough(buf[0][1], 0, 1e-4) {
		t.Errorf("hard left pan = %v", buf[0])
	}
	pan.SetPosition(7) // clamps to hard right
	buf = constBuffer(1, 1)
	pan.Process(buf)
	if !closeEnough(buf[0][0], 0, 1e-4) || !closeEnough(buf[0][1], 1, 1e-4) {
		t.Errorf("hard right pan = %v", buf[0])
	}
}

func TestFlatEQIsIdentity(t *testing.T) {
	eq := dsp.NewThreeBandEQ()
	buf := make(mixdown.AudioBuffer, 512)
	for i := range buf {
		v := float32(math.Sin(2 * math.Pi * 440 * float64(i) / mixdown.SampleRate))
		buf[i] = [2]float32{v, v}
	}
	want := make(mixdown.AudioBuffer, len(buf))
	copy(want, buf)
	eq.Process(buf)
	for i := range buf {
		if !closeEnough(buf[i][0], want[i][0], 1e-3) {
			t.Fatalf("flat EQ altered sample %d: %v -> %v", i, want[i][0], buf[i][0])
		}
	}
}

func TestLowShelfBoostsBass(t *testing.T) {
	eq := dsp.NewThreeBandEQ()
	eq.SetGains(dsp.EQGains{Low: 12})
	var meter dsp.Meter
	buf := make(mixdown.AudioBuffer, 8192)
	for i := range buf {
		v := float32(math.Sin(2 * math.Pi * 60 * float64(i) / mixdown.SampleRate))
		buf[i] = [2]float32{v, v}
	}
	before := meter.Measure(buf)
	eq.Process(buf)
	after := meter.Measure(buf)
	if after.RMS <= before.RMS {
		t.Errorf("60 Hz rms did not rise under a +12 dB low shelf: %v -> %v", before.RMS, after.RMS)
	}
}

func TestLimiterHoldsCeiling(t *testing.T) {
	limiter := dsp.NewLimiter(0.5)
	buf := constBuffer(mixdown.SampleRate/10, 1.0)
	limiter.Process(buf)
	for i := range buf {
		if buf[i][0] > 0.5 || buf[i][0] < -0.5 {
			t.Fatalf("sample %d exceeds ceiling: %v", i, buf[i][0])
		}
	}
	// quiet signals pass through nearly untouched
	limiter = dsp.NewLimiter(0.98)
	buf = constBuffer(1024, 0.25)
	limiter.Process(buf)
	if !closeEnough(buf[0][0], 0.25, 1e-3) {
		t.Errorf("quiet signal attenuated: %v", buf[0][0])
	}
}

func TestGainScales(t *testing.T) {
	gain := dsp.Gain{Level: 0.5}
	buf := constBuffer(4, 0.8)
	gain.Process(buf)
	for i := range buf {
		if !closeEnough(buf[i][0], 0.4, 1e-5) || !closeEnough(buf[i][1], 0.4, 1e-5) {
			t.Fatalf("gain 0.5 over 0.8 gave %v", buf[i])
		}
	}
}
