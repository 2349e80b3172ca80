// ABOUTME: RIFF/WAVE header parser for 16-bit PCM files
// ABOUTME: Walks chunks to locate fmt and data without reading sample bytes
package wave

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Info describes a WAV file's sample format and the location of its
// sample region. Built once per playback attempt, never mutated.
type Info struct {
	SampleRate    uint32
	Channels      uint16
	BitsPerSample uint16
	DataOffset    uint64
	DataSize      uint64
}

// Frames returns the number of interleaved sample frames in the data region.
func (i Info) Frames() uint64 {
	return i.DataSize / uint64(i.BitsPerSample/8) / uint64(i.Channels)
}

// ParseHeader reads the chunk list of a RIFF/WAVE file and returns its
// format plus the byte range of the data chunk. Only header bytes are
// touched, so even multi-hour files open instantly. Unknown chunks
// (LIST, fact, ...) are skipped, honoring the pad byte that follows an
// odd-sized chunk; the fmt chunk
// must appear before data and only its first 16 bytes are interpreted.
func ParseHeader(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	return readHeader(f)
}

func readHeader(f *os.File) (Info, error) {
	var riff [12]byte
	if _, err := io.ReadFull(f, riff[:]); err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrNotRiff, err)
	}
	if string(riff[0:4]) != "RIFF" {
		return Info{}, ErrNotRiff
	}
	if string(riff[8:12]) != "WAVE" {
		return Info{}, ErrNotWave
	}

	var info Info
	fmtSeen := false

	for {
		var hdr [8]byte
		if _, err := io.ReadFull(f, hdr[:]); err != nil {
			return Info{}, fmt.Errorf("%w: %v", ErrMissingDataChunk, err)
		}
		chunkID := string(hdr[0:4])
		chunkSize := binary.LittleEndian.Uint32(hdr[4:8])

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return Info{}, fmt.Errorf("%w: fmt chunk too short (%d bytes)", ErrMissingFmtChunk, chunkSize)
			}
			var raw [16]byte
			if _, err := io.ReadFull(f, raw[:]); err != nil {
				return Info{}, fmt.Errorf("%w: %v", ErrMissingFmtChunk, err)
			}
			audioFormat := binary.LittleEndian.Uint16(raw[0:2])
			if audioFormat != 1 {
				return Info{}, fmt.Errorf("%w: format tag %d", ErrNotPCM, audioFormat)
			}
			info.Channels = binary.LittleEndian.Uint16(raw[2:4])
			info.SampleRate = binary.LittleEndian.Uint32(raw[4:8])
			info.BitsPerSample = binary.LittleEndian.Uint16(raw[14:16])

			if info.BitsPerSample != 16 {
				return Info{}, fmt.Errorf("%w: got %d-bit", ErrUnsupportedBitDepth, info.BitsPerSample)
			}
			if info.Channels != 1 && info.Channels != 2 {
				return Info{}, fmt.Errorf("%w: got %d channels", ErrUnsupportedChannels, info.Channels)
			}
			fmtSeen = true

			// Format-extension bytes beyond the basic 16 are skipped,
			// along with the pad byte after an odd-sized chunk.
			if extra := int64(chunkSize) + int64(chunkSize%2) - 16; extra > 0 {
				if _, err := f.Seek(extra, io.SeekCurrent); err != nil {
					return Info{}, err
				}
			}

		case "data":
			if !fmtSeen {
				return Info{}, ErrMissingFmtChunk
			}
			off, err := f.Seek(0, io.SeekCurrent)
			if err != nil {
				return Info{}, err
			}
			info.DataOffset = uint64(off)
			info.DataSize = uint64(chunkSize)

			// A declared size past EOF would send the playback position
			// into unmapped bytes; clamp to what the file actually holds.
			st, err := f.Stat()
			if err != nil {
				return Info{}, err
			}
			if avail := uint64(st.Size()) - info.DataOffset; info.DataSize > avail {
				info.DataSize = avail
			}
			return info, nil

		default:
			// RIFF aligns chunks to even offsets: an odd-sized chunk is
			// followed by an undeclared pad byte.
			if _, err := f.Seek(int64(chunkSize)+int64(chunkSize%2), io.SeekCurrent); err != nil {
				return Info{}, fmt.Errorf("%w: %v", ErrMissingDataChunk, err)
			}
		}
	}
}
