// ABOUTME: Buffer-fill protocol over the mapped sample region
// ABOUTME: Verbatim copy, loop wraparound, or zero-filled tail
package engine

import "encoding/binary"

// track is the callback's view of the sample region: raw little-endian
// 16-bit PCM bytes plus a frame position. Only the real-time callback
// touches pos, so no synchronization is needed here.
type track struct {
	data     []byte
	channels int
	frames   int
	pos      int
}

// fill decodes the next len(out)/channels frames into out, advancing
// the position. When looping, the read wraps from the end of the region
// back to frame zero; the seam is click-free only because the source
// audio is pre-crossfaded, no blending happens here. Returns true once
// the final tail of a non-looping track has been emitted (the remainder
// of out is zeroed).
func (t *track) fill(out []int16, loop bool) bool {
	n := len(out) / t.channels

	if t.pos+n <= t.frames {
		t.copyFrames(out, 0, t.pos, n)
		t.pos += n
		return false
	}

	tail := t.frames - t.pos
	t.copyFrames(out, 0, t.pos, tail)

	if !loop {
		for i := tail * t.channels; i < len(out); i++ {
			out[i] = 0
		}
		t.pos = t.frames
		return true
	}

	// Wrap back to the start, repeatedly for sources shorter than one
	// buffer.
	copied := tail
	t.pos = 0
	for copied < n {
		c := n - copied
		if c > t.frames {
			c = t.frames
		}
		t.copyFrames(out, copied, 0, c)
		t.pos = c
		copied += c
	}
	return false
}

// copyFrames decodes count frames starting at srcFrame into out
// starting at dstFrame. Per-sample decoding, no allocation.
func (t *track) copyFrames(out []int16, dstFrame, srcFrame, count int) {
	dst := dstFrame * t.channels
	src := srcFrame * t.channels * 2
	for i := 0; i < count*t.channels; i++ {
		out[dst+i] = int16(binary.LittleEndian.Uint16(t.data[src+2*i:]))
	}
}
