package synth_test

import (
	"testing"

	"github.com/welkin-audio/welkin"
	"github.com/welkin-audio/welkin/synth"
)

func TestEnvelopeStartsAndEndsIdle(t *testing.T) {
	e := synth.NewEnvelope(0.01, 0.01, 0.5, 0.01)
	if !e.IsIdle() {
		t.Error("new envelope should be idle")
	}
	if v := e.Value(); v != 0 {
		t.Errorf("idle value %v, expected 0", v)
	}
	e.TriggerAttack()
	if e.IsIdle() {
		t.Error("triggered envelope should not be idle")
	}
	e.TriggerRelease()
	e.Tick(welkin.DefaultSampleRate) // 1 s, far beyond a 0.3 s release
	if !e.IsIdle() {
		t.Error("released envelope should have gone idle")
	}
	if v := e.Value(); v != 0 {
		t.Errorf("idle value %v, expected 0", v)
	}
}

// A zero attack and zero decay jump straight to the sustain level.
func TestEnvelopeInstantAttack(t *testing.T) {
	e := synth.NewEnvelope(0, 0, 0.5, 0.01)
	e.TriggerAttack()
	e.Tick(1)
	if v := e.Value(); v != 0.5 {
		t.Errorf("got %v, expected exactly the sustain level 0.5", v)
	}
}

// A zero release goes idle immediately.
func TestEnvelopeInstantRelease(t *testing.T) {
	e := synth.NewEnvelope(0, 0, 0.8, 0)
	e.TriggerAttack()
	e.Tick(10)
	e.TriggerRelease()
	if !e.IsIdle() {
		t.Error("zero release should go idle immediately")
	}
	e.Tick(1)
	if v := e.Value(); v != 0 {
		t.Errorf("got %v, expected 0", v)
	}
}

// The envelope rises to full amplitude, then settles exactly on the sustain
// level.
func TestEnvelopeReachesSustainExactly(t *testing.T) {
	attack := synth.EnvelopeDurationFromSeconds(0.01)
	decay := synth.EnvelopeDurationFromSeconds(0.01)
	e := synth.NewEnvelope(attack, decay, 0.5, 0.01)
	e.TriggerAttack()
	max := 0.0
	for i := 0; i < welkin.DefaultSampleRate; i++ {
		e.Tick(1)
		if v := e.Value(); v > max {
			max = v
		}
	}
	if max < 0.999 {
		t.Errorf("attack peaked at %v, expected ~1", max)
	}
	if v := e.Value(); v != 0.5 {
		t.Errorf("got %v, expected exactly the sustain level 0.5", v)
	}
}

// Decay and release slopes span the full amplitude range, so with a high
// sustain level the actual decay takes less time than the decay setting:
// duration times (1 - sustain).
func TestEnvelopeDecayUsesFullRangeSlope(t *testing.T) {
	decay := synth.EnvelopeDurationFromSeconds(3)
	const sustain = 0.8
	e := synth.NewEnvelope(0, decay, sustain, 0.01)
	e.TriggerAttack() // instant attack, decay starts from full amplitude
	ticks := 0
	for ; ticks < 2*welkin.DefaultSampleRate; ticks++ {
		e.Tick(1)
		if e.Value() <= sustain {
			break
		}
	}
	expected := int(3 * (1 - sustain) * welkin.DefaultSampleRate) // 0.6 s
	if ticks < expected-5 || ticks > expected+5 {
		t.Errorf("decay took %v ticks, expected ~%v", ticks, expected)
	}
}

// With a 100% sustain there is nothing to decay; the envelope must hold full
// amplitude instead of warping it through a degenerate curve.
func TestEnvelopeFullSustain(t *testing.T) {
	decay := synth.EnvelopeDurationFromSeconds(1)
	e := synth.NewEnvelope(0, decay, 1.0, 0.01)
	e.TriggerAttack()
	for i := 0; i < welkin.DefaultSampleRate; i++ {
		e.Tick(1)
		if v := e.Value(); v != 1 {
			t.Fatalf("got %v at tick %v, expected to hold exactly 1", v, i)
		}
	}
}

// Shutdown is a fixed 1 ms ramp regardless of the release setting.
func TestEnvelopeShutdown(t *testing.T) {
	e := synth.NewEnvelope(0, 0, 1.0, 1.0) // 30 s release
	e.TriggerAttack()
	e.Tick(10)
	e.TriggerShutdown()
	e.Tick(welkin.DefaultSampleRate / 100) // 10 ms
	if !e.IsIdle() {
		t.Error("shutdown should have finished within 10 ms")
	}
	if v := e.Value(); v != 0 {
		t.Errorf("got %v after shutdown, expected 0", v)
	}
}

// The attack curve is convex: at half time it is past the midpoint level.
func TestEnvelopeAttackIsConvex(t *testing.T) {
	attack := synth.EnvelopeDurationFromSeconds(0.1)
	e := synth.NewEnvelope(attack, 0, 1.0, 0.01)
	e.TriggerAttack()
	halfway := int(0.05 * welkin.DefaultSampleRate)
	e.Tick(halfway)
	if v := e.Value(); v <= 0.5 {
		t.Errorf("attack at half time is %v, expected above the linear 0.5", v)
	}
}

// The release curve is concave: at half time it is below the midpoint level.
func TestEnvelopeReleaseIsConcave(t *testing.T) {
	release := synth.EnvelopeDurationFromSeconds(0.1)
	e := synth.NewEnvelope(0, 0, 1.0, release)
	e.TriggerAttack()
	e.Tick(10)
	e.TriggerRelease()
	halfway := int(0.05 * welkin.DefaultSampleRate)
	e.Tick(halfway)
	if v := e.Value(); v >= 0.5 {
		t.Errorf("release at half time is %v, expected below the linear 0.5", v)
	}
}

func TestEnvelopeDurationConversions(t *testing.T) {
	if got := synth.EnvelopeDurationToSeconds(1); got != synth.EnvelopeMaxSeconds {
		t.Errorf("got %v, expected %v", got, synth.EnvelopeMaxSeconds)
	}
	if got := synth.EnvelopeDurationFromSeconds(3); got != 0.1 {
		t.Errorf("got %v, expected 0.1", got)
	}
}
