// ABOUTME: Brown-noise WAV generator, run once and cached to disk
// ABOUTME: Integrated white noise, band-limited, chunked with crossfades
package noise

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	// SampleRate of the generated file.
	SampleRate = 44100

	// DefaultDuration of the generated loop.
	DefaultDuration = time.Hour

	// FileName of the cached noise file inside the data directory.
	FileName = "deep_brown_noise_1hr.wav"

	chunkSeconds     = 300
	crossfadeSeconds = 1
	targetRMS        = 0.3
)

// Ensure returns the path to the cached noise file under dataDir,
// generating it on first use.
func Ensure(dataDir string, duration time.Duration) (string, error) {
	path := filepath.Join(dataDir, FileName)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	log.Printf("Generating brown noise audio (first run, takes a while)")
	if err := Generate(path, duration); err != nil {
		return "", err
	}
	return path, nil
}

// Generate renders duration seconds of deep brown noise and writes it
// as a mono 16-bit WAV. The noise is integrated white noise band-passed
// to 1-500Hz with a 20Hz sub-bass high-pass, RMS-normalised per chunk,
// and chunks are crossfaded so the file carries no internal clicks. The
// file's last second fades into the continuation of its first samples,
// so wrapping from the last frame back to frame zero is seamless.
func Generate(path string, duration time.Duration) error {
	if duration <= 0 {
		duration = DefaultDuration
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, SampleRate, 16, 1, 1)

	total := int(duration.Seconds() * SampleRate)
	xfade := SampleRate * crossfadeSeconds
	if xfade > total/2 {
		xfade = total / 2
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	lens := planChunks(total, xfade)

	// The first xfade samples are held out of the file body. At the end
	// they become the blend target for the loop seam, so the last frame
	// lands exactly one sample before the first frame's content.
	var head, tail []float64

	for i, n := range lens {
		chunk := renderChunk(rng, n)
		if tail != nil {
			crossfade(tail, chunk)
		}
		if i == 0 {
			head = append([]float64(nil), chunk[:xfade]...)
			chunk = chunk[xfade:]
		}

		// Hold the tail back; it blends into the next chunk, or for the
		// final chunk into the loop seam.
		tail = append(tail[:0], chunk[len(chunk)-xfade:]...)
		if err := writeSamples(enc, chunk[:len(chunk)-xfade]); err != nil {
			return fmt.Errorf("writing noise chunk: %w", err)
		}
	}

	crossfade(tail, head)
	if err := writeSamples(enc, head); err != nil {
		return fmt.Errorf("writing loop seam: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing wav: %w", err)
	}
	return f.Close()
}

// planChunks splits a render of total output samples into raw chunk
// lengths. Every crossfade overlaps two chunks by xfade samples and the
// loop seam consumes one more, so the raw lengths oversupply exactly
// enough that the emitted file holds total samples, whatever the
// requested duration. The final chunk is simply shorter when total is
// not a multiple of the chunk size.
func planChunks(total, xfade int) []int {
	target := total + xfade
	full := SampleRate * chunkSeconds

	if target <= full {
		return []int{target}
	}

	step := full - xfade
	n := 1 + (target-full+step-1)/step
	lens := make([]int, n)
	for i := range lens {
		lens[i] = full
	}
	lens[n-1] = target - (n-1)*step
	return lens
}

// renderChunk produces one normalised chunk of brown noise. Filter
// state is fresh per chunk, which is why adjacent chunks need the
// crossfade.
func renderChunk(rng *rand.Rand, n int) []float64 {
	buf := make([]float64, n)

	// Brown noise: running sum of white noise.
	sum := 0.0
	for i := range buf {
		sum += rng.NormFloat64()
		buf[i] = sum
	}

	newHighPass(1, SampleRate).processBuf(buf)
	newLowPass(500, SampleRate).processBuf(buf)
	newOnePoleHighPass(20, SampleRate).processBuf(buf)

	normalize(buf)
	return buf
}

// normalize scales buf to the target RMS and clips to [-1, 1].
func normalize(buf []float64) {
	var sq float64
	for _, s := range buf {
		sq += s * s
	}
	rms := math.Sqrt(sq / float64(len(buf)))
	if rms == 0 {
		return
	}

	gain := targetRMS / rms
	for i, s := range buf {
		s *= gain
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		buf[i] = s
	}
}

// crossfade blends prevTail into the head of next with linear ramps.
// len(prevTail) samples of next are overwritten in place.
func crossfade(prevTail, next []float64) {
	n := len(prevTail)
	for i := 0; i < n; i++ {
		in := float64(i) / float64(n)
		next[i] = next[i]*in + prevTail[i]*(1-in)
	}
}

func writeSamples(enc *wav.Encoder, samples []float64) error {
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s * 32767)
	}
	return enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	})
}
