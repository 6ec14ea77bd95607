package player

import (
	"math"

	"github.com/viterin/vek/vek32"

	"github.com/welkin-audio/welkin"
)

// LevelDetector measures the RMS level and the peak of rendered audio, per
// channel. The heavy lifting is vectorized; the interleaved stereo buffer is
// deinterleaved into flat scratch slices that are reused between calls.
type LevelDetector struct {
	tmp  []float32 // one channel, deinterleaved
	tmp2 []float32 // squared samples

	rms  [2]float32
	peak [2]float32
}

// NewLevelDetector builds a detector. Scratch buffers grow on demand.
func NewLevelDetector() *LevelDetector {
	return &LevelDetector{}
}

// Update measures the buffer and stores the result, overwriting the previous
// measurement. Peaks are per-buffer, not held.
func (d *LevelDetector) Update(buffer welkin.AudioBuffer) {
	if len(buffer) == 0 {
		d.rms = [2]float32{}
		d.peak = [2]float32{}
		return
	}
	if cap(d.tmp) < len(buffer) {
		d.tmp = make([]float32, len(buffer))
		d.tmp2 = make([]float32, len(buffer))
	}
	d.tmp = d.tmp[:len(buffer)]
	d.tmp2 = d.tmp2[:len(buffer)]
	for chn := 0; chn < 2; chn++ {
		for i, frame := range buffer {
			d.tmp[i] = frame[chn]
		}
		squared := vek32.Mul_Into(d.tmp2, d.tmp, d.tmp)
		d.rms[chn] = float32(math.Sqrt(float64(vek32.Mean(squared))))
		vek32.Abs_Inplace(d.tmp)
		d.peak[chn] = vek32.Max(d.tmp)
	}
}

// RMS returns the root-mean-square level of the last measured buffer, per
// channel.
func (d *LevelDetector) RMS() [2]float32 { return d.rms }

// Peak returns the largest absolute sample of the last measured buffer, per
// channel.
func (d *LevelDetector) Peak() [2]float32 { return d.peak }

// RMSDecibels returns the RMS level in dBFS; silence reports -inf.
func (d *LevelDetector) RMSDecibels() [2]float32 {
	var ret [2]float32
	for chn, v := range d.rms {
		ret[chn] = float32(20 * math.Log10(float64(v)))
	}
	return ret
}
