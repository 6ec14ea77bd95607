package synth

import (
	"math"

	"github.com/welkin-audio/welkin"
)

type envelopeState int

const (
	stateIdle envelopeState = iota
	stateAttack
	stateDecay
	stateSustain
	stateRelease
	stateShutdown
)

// EnvelopeMaxSeconds is the real time that an attack/decay/release duration
// of 1.0 maps to.
const EnvelopeMaxSeconds = 30.0

// EnvelopeDurationFromSeconds converts a duration in seconds to the
// unit-interval form the envelope parameters use.
func EnvelopeDurationFromSeconds(seconds float64) float64 {
	return seconds / EnvelopeMaxSeconds
}

// EnvelopeDurationToSeconds is the inverse of EnvelopeDurationFromSeconds.
func EnvelopeDurationToSeconds(duration float64) float64 {
	return duration * EnvelopeMaxSeconds
}

// shutdownDuration is the fixed 1 ms forced ramp used when a voice is
// stolen mid-sound.
var shutdownDuration = EnvelopeDurationFromSeconds(1.0 / 1000)

// Envelope is an ADSR amplitude generator. The internal ramp is linear (with
// compensated summation so it hits its targets exactly), and the reported
// value is that ramp pushed through a quadratic fitted at each state entry:
// convex for attack, concave for decay and release. This approximates the
// response of an analog envelope rather than a straight line.
//
// Note the deliberate oddity inherited from analog behavior: decay and
// release slopes are computed against the full 0..1 amplitude range, not the
// actual distance to the target, so when sustain is high the actual decay
// takes less time than the decay parameter.
type Envelope struct {
	attack  float64
	decay   float64
	sustain float64
	release float64

	sampleRate       int
	state            envelopeState
	handledFirstTick bool

	ticks int
	time  float64 // seconds since the last reset

	uncorrectedAmplitude kahanSum
	correctedAmplitude   float64
	delta                float64
	amplitudeTarget      float64
	timeTarget           float64

	// amplitudeWasSet means the amplitude was snapped to an explicit value
	// during this frame; the caller expects exactly that value, so the
	// pre-update amplitude is reported instead of the usual post-update one.
	amplitudeWasSet bool

	convexA, convexB, convexC    float64
	concaveA, concaveB, concaveC float64
}

// NewEnvelope returns an envelope with the given ADSR settings. Attack,
// decay and release are unit intervals mapped onto 0..30 s; sustain is a
// unit-interval level.
func NewEnvelope(attack, decay, sustain, release float64) *Envelope {
	return &Envelope{
		attack:     attack,
		decay:      decay,
		sustain:    sustain,
		release:    release,
		sampleRate: welkin.DefaultSampleRate,
	}
}

// TriggerAttack starts the envelope from its current amplitude.
func (e *Envelope) TriggerAttack() { e.setState(stateAttack) }

// TriggerRelease starts the release ramp toward zero.
func (e *Envelope) TriggerRelease() { e.setState(stateRelease) }

// TriggerShutdown forces the fixed 1 ms ramp to zero, bypassing the curve
// fit. Used only when a voice is stolen.
func (e *Envelope) TriggerShutdown() { e.setState(stateShutdown) }

// IsIdle reports whether the envelope has finished sounding.
func (e *Envelope) IsIdle() bool { return e.state == stateIdle }

// Value returns the curve-transformed amplitude computed by the latest Tick,
// clamped to [0, 1].
func (e *Envelope) Value() float64 {
	if e.correctedAmplitude < 0 {
		return 0
	}
	if e.correctedAmplitude > 1 {
		return 1
	}
	return e.correctedAmplitude
}

// SetSampleRate tells the envelope the new sample rate; its clock restarts
// at the next tick.
func (e *Envelope) SetSampleRate(sampleRate int) {
	e.sampleRate = sampleRate
	e.handledFirstTick = false
}

func (e *Envelope) Attack() float64  { return e.attack }
func (e *Envelope) Decay() float64   { return e.decay }
func (e *Envelope) Sustain() float64 { return e.sustain }
func (e *Envelope) Release() float64 { return e.release }

func (e *Envelope) SetAttack(attack float64)   { e.attack = attack }
func (e *Envelope) SetDecay(decay float64)     { e.decay = decay }
func (e *Envelope) SetSustain(sustain float64) { e.sustain = sustain }
func (e *Envelope) SetRelease(release float64) { e.release = release }

// Tick advances the envelope by n samples.
func (e *Envelope) Tick(n int) {
	for ; n > 0; n-- {
		preUpdateAmplitude := e.uncorrectedAmplitude.value()
		if !e.handledFirstTick {
			e.handledFirstTick = true
		} else {
			e.ticks++
			e.uncorrectedAmplitude.add(e.delta)
		}
		e.time = float64(e.ticks) / float64(e.sampleRate)

		e.handleState()

		linear := e.uncorrectedAmplitude.value()
		if e.amplitudeWasSet {
			e.amplitudeWasSet = false
			linear = preUpdateAmplitude
		}
		switch e.state {
		case stateAttack:
			e.correctedAmplitude = e.convexC*linear*linear + e.convexB*linear + e.convexA
		case stateDecay, stateRelease:
			e.correctedAmplitude = e.concaveC*linear*linear + e.concaveB*linear + e.concaveA
		default:
			e.correctedAmplitude = linear
		}
	}
}

func (e *Envelope) handleState() {
	var next envelopeState
	awaitingTarget := true
	switch e.state {
	case stateAttack:
		next = stateDecay
	case stateDecay:
		next = stateSustain
	case stateRelease, stateShutdown:
		next = stateIdle
	default: // Idle and Sustain hold until triggered elsewhere
		awaitingTarget = false
	}
	if awaitingTarget && e.hasReachedTarget() {
		e.setState(next)
	}
}

func (e *Envelope) hasReachedTarget() bool {
	var hit bool
	switch {
	case e.delta == 0:
		// Degenerate, but we must not be stuck forever in this state.
		hit = true
	case e.timeTarget != 0 && e.time >= e.timeTarget:
		// The time target takes precedence even if the amplitude is not
		// quite there yet.
		hit = true
	default:
		// As close as we will get without overshooting on the next tick.
		hit = math.Abs(e.uncorrectedAmplitude.value()-e.amplitudeTarget) < math.Abs(e.delta)
	}
	if hit {
		// Snap exactly to the target to wipe out residual error. No need to
		// flag amplitudeWasSet: this runs after the per-tick update, so the
		// reported value was already snapshotted at the right time.
		e.uncorrectedAmplitude = newKahanSum(e.amplitudeTarget)
	}
	return hit
}

// setState performs the state-entry action. It assumes the prior state
// actually happened and left the amplitude at a sensible value: if attack is
// zero and decay is not, decay must start from amplitude 1, not from
// whatever idle left behind.
func (e *Envelope) setState(newState envelopeState) {
	switch newState {
	case stateIdle:
		e.state = stateIdle
		e.uncorrectedAmplitude = kahanSum{}
		e.delta = 0
	case stateAttack:
		if e.attack == 0 {
			// A zero-length attack would mean a division-by-zero slope;
			// jump straight to full amplitude and let decay take over.
			e.setExplicitAmplitude(1)
			e.setState(stateDecay)
			return
		}
		e.state = stateAttack
		const targetAmplitude = 1.0
		e.setTarget(targetAmplitude, e.attack, false, false)
		current := e.uncorrectedAmplitude.value()
		e.convexA, e.convexB, e.convexC = curveCoefficients(
			current, current,
			(targetAmplitude-current)/2+current, (targetAmplitude-current)/1.5+current,
			targetAmplitude, targetAmplitude,
		)
	case stateDecay:
		if e.decay == 0 {
			e.setExplicitAmplitude(e.sustain)
			e.setState(stateSustain)
			return
		}
		e.state = stateDecay
		targetAmplitude := e.sustain
		e.setTarget(targetAmplitude, e.decay, true, false)
		current := e.uncorrectedAmplitude.value()
		e.concaveA, e.concaveB, e.concaveC = curveCoefficients(
			current, current,
			(current-targetAmplitude)/2+targetAmplitude, (current-targetAmplitude)/3+targetAmplitude,
			targetAmplitude, targetAmplitude,
		)
	case stateSustain:
		e.state = stateSustain
		e.setTarget(e.sustain, 1, false, false)
	case stateRelease:
		if e.release == 0 {
			e.setExplicitAmplitude(0)
			e.setState(stateIdle)
			return
		}
		e.state = stateRelease
		const targetAmplitude = 0.0
		e.setTarget(targetAmplitude, e.release, true, false)
		current := e.uncorrectedAmplitude.value()
		e.concaveA, e.concaveB, e.concaveC = curveCoefficients(
			current, current,
			(current-targetAmplitude)/2+targetAmplitude, (current-targetAmplitude)/3+targetAmplitude,
			targetAmplitude, targetAmplitude,
		)
	case stateShutdown:
		e.state = stateShutdown
		e.setTarget(0, shutdownDuration, false, true)
	}
}

func (e *Envelope) setExplicitAmplitude(amplitude float64) {
	e.uncorrectedAmplitude = newKahanSum(amplitude)
	e.amplitudeWasSet = true
}

// setTarget computes the linear delta for a ramp toward targetAmplitude over
// duration. fullAmplitudeRange makes the slope span the whole 0..1 range
// instead of the actual distance (the decay/release rule). fastReaction adds
// one extra frame and pre-applies the delta, for the shutdown ramp that must
// start falling immediately.
func (e *Envelope) setTarget(targetAmplitude, duration float64, fullAmplitudeRange, fastReaction bool) {
	e.amplitudeTarget = targetAmplitude
	if duration == 1 {
		// Maximum duration means "hold forever" (sustain).
		e.timeTarget = math.Inf(1)
		e.delta = 0
		return
	}
	var extraFrame float64
	if fastReaction {
		extraFrame = 1
	}
	span := targetAmplitude - e.uncorrectedAmplitude.value()
	if fullAmplitudeRange {
		span = -1
	}
	durationSeconds := EnvelopeDurationToSeconds(duration)
	e.timeTarget = e.time + durationSeconds
	if duration != 0 {
		e.delta = span / (durationSeconds*float64(e.sampleRate) + extraFrame)
	} else {
		e.delta = 0
	}
	if fastReaction {
		e.uncorrectedAmplitude.add(e.delta)
	}
}
