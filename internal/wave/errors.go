// ABOUTME: Sentinel errors for WAV header parsing
// ABOUTME: All parse failures wrap one of these for errors.Is checks
package wave

import "errors"

var (
	ErrNotRiff             = errors.New("not a RIFF file")
	ErrNotWave             = errors.New("not a WAVE file")
	ErrMissingFmtChunk     = errors.New("no fmt chunk before data")
	ErrMissingDataChunk    = errors.New("no data chunk found")
	ErrNotPCM              = errors.New("compressed WAV not supported")
	ErrUnsupportedBitDepth = errors.New("only 16-bit samples supported")
	ErrUnsupportedChannels = errors.New("only mono or stereo supported")
)
