// ABOUTME: Tests for WAV header parsing
// ABOUTME: Covers chunk walking, malformed headers, and size clamping
package wave

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavBuilder assembles RIFF files byte by byte so tests control
// chunk order and corruption precisely.
type wavBuilder struct {
	chunks []byte
}

func (b *wavBuilder) chunk(id string, body []byte) *wavBuilder {
	hdr := make([]byte, 8)
	copy(hdr[0:4], id)
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(body)))
	b.chunks = append(b.chunks, hdr...)
	b.chunks = append(b.chunks, body...)
	if len(body)%2 == 1 {
		// RIFF pads odd-sized chunks to an even boundary; the pad byte
		// is not counted in the declared size.
		b.chunks = append(b.chunks, 0)
	}
	return b
}

func (b *wavBuilder) fmtChunk(format, channels uint16, rate uint32, bits uint16) *wavBuilder {
	body := make([]byte, 16)
	binary.LittleEndian.PutUint16(body[0:2], format)
	binary.LittleEndian.PutUint16(body[2:4], channels)
	binary.LittleEndian.PutUint32(body[4:8], rate)
	binary.LittleEndian.PutUint32(body[8:12], rate*uint32(channels)*uint32(bits/8))
	binary.LittleEndian.PutUint16(body[12:14], channels*bits/8)
	binary.LittleEndian.PutUint16(body[14:16], bits)
	return b.chunk("fmt ", body)
}

func (b *wavBuilder) bytes() []byte {
	out := make([]byte, 12)
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(4+len(b.chunks)))
	copy(out[8:12], "WAVE")
	return append(out, b.chunks...)
}

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.wav")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestParseHeaderBasic(t *testing.T) {
	samples := []byte{1, 0, 2, 0, 3, 0, 4, 0}
	b := &wavBuilder{}
	b.fmtChunk(1, 1, 44100, 16).chunk("data", samples)
	path := writeTemp(t, b.bytes())

	info, err := ParseHeader(path)
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}

	if info.SampleRate != 44100 {
		t.Errorf("expected rate 44100, got %d", info.SampleRate)
	}
	if info.Channels != 1 {
		t.Errorf("expected 1 channel, got %d", info.Channels)
	}
	if info.BitsPerSample != 16 {
		t.Errorf("expected 16 bits, got %d", info.BitsPerSample)
	}
	if info.DataSize != 8 {
		t.Errorf("expected data size 8, got %d", info.DataSize)
	}
	// 12-byte RIFF header + 8+16 fmt chunk + 8-byte data header
	if info.DataOffset != 44 {
		t.Errorf("expected data offset 44, got %d", info.DataOffset)
	}
	if info.Frames() != 4 {
		t.Errorf("expected 4 frames, got %d", info.Frames())
	}
}

func TestParseHeaderSkipsUnknownChunks(t *testing.T) {
	b := &wavBuilder{}
	b.chunk("JUNK", make([]byte, 13)).
		fmtChunk(1, 2, 48000, 16).
		chunk("LIST", []byte("INFOsomething")).
		chunk("fact", make([]byte, 4)).
		chunk("data", make([]byte, 16))
	path := writeTemp(t, b.bytes())

	info, err := ParseHeader(path)
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	if info.SampleRate != 48000 || info.Channels != 2 {
		t.Errorf("unexpected format: %+v", info)
	}
	if info.DataSize != 16 {
		t.Errorf("expected data size 16, got %d", info.DataSize)
	}
	if info.Frames() != 4 {
		t.Errorf("expected 4 stereo frames, got %d", info.Frames())
	}

	// JUNK and LIST are 13 bytes each and padded to 14; landing on the
	// data chunk proves the walk honors the pad bytes.
	// 12 + (8+14) + (8+16) + (8+14) + (8+4) + 8
	if info.DataOffset != 100 {
		t.Errorf("expected data offset 100, got %d", info.DataOffset)
	}
}

func TestParseHeaderOddFmtExtension(t *testing.T) {
	// 17-byte fmt chunk: one extension byte plus a pad byte before data.
	body := make([]byte, 17)
	binary.LittleEndian.PutUint16(body[0:2], 1)
	binary.LittleEndian.PutUint16(body[2:4], 1)
	binary.LittleEndian.PutUint32(body[4:8], 44100)
	binary.LittleEndian.PutUint16(body[14:16], 16)

	b := &wavBuilder{}
	b.chunk("fmt ", body).chunk("data", []byte{1, 0, 2, 0})
	path := writeTemp(t, b.bytes())

	info, err := ParseHeader(path)
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	if info.Frames() != 2 {
		t.Errorf("expected 2 frames, got %d", info.Frames())
	}
	// 12 + 8 + 17 + pad + 8
	if info.DataOffset != 46 {
		t.Errorf("expected data offset 46, got %d", info.DataOffset)
	}
}

func TestParseHeaderFmtExtension(t *testing.T) {
	// fmt chunk with extension bytes past the basic 16
	body := make([]byte, 18)
	binary.LittleEndian.PutUint16(body[0:2], 1)
	binary.LittleEndian.PutUint16(body[2:4], 1)
	binary.LittleEndian.PutUint32(body[4:8], 22050)
	binary.LittleEndian.PutUint16(body[14:16], 16)

	b := &wavBuilder{}
	b.chunk("fmt ", body).chunk("data", make([]byte, 4))
	path := writeTemp(t, b.bytes())

	info, err := ParseHeader(path)
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	if info.SampleRate != 22050 {
		t.Errorf("expected rate 22050, got %d", info.SampleRate)
	}
}

func TestParseHeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{
			name: "missing RIFF magic",
			data: []byte("RIFXxxxxWAVE"),
			want: ErrNotRiff,
		},
		{
			name: "truncated before WAVE",
			data: []byte("RIFF\x00\x00"),
			want: ErrNotRiff,
		},
		{
			name: "not a WAVE form",
			data: []byte("RIFF\x24\x00\x00\x00AVI "),
			want: ErrNotWave,
		},
		{
			name: "no data chunk",
			data: (&wavBuilder{}).fmtChunk(1, 1, 44100, 16).bytes(),
			want: ErrMissingDataChunk,
		},
		{
			name: "data before fmt",
			data: (&wavBuilder{}).chunk("data", make([]byte, 4)).bytes(),
			want: ErrMissingFmtChunk,
		},
		{
			name: "8-bit samples",
			data: (&wavBuilder{}).fmtChunk(1, 1, 44100, 8).chunk("data", make([]byte, 4)).bytes(),
			want: ErrUnsupportedBitDepth,
		},
		{
			name: "ADPCM format tag",
			data: (&wavBuilder{}).fmtChunk(2, 1, 44100, 16).chunk("data", make([]byte, 4)).bytes(),
			want: ErrNotPCM,
		},
		{
			name: "five channels",
			data: (&wavBuilder{}).fmtChunk(1, 5, 44100, 16).chunk("data", make([]byte, 20)).bytes(),
			want: ErrUnsupportedChannels,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, tt.data)
			_, err := ParseHeader(path)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseHeaderClampsOversizedData(t *testing.T) {
	// Declared data size larger than the bytes actually present.
	b := &wavBuilder{}
	b.fmtChunk(1, 1, 44100, 16)
	raw := b.bytes()

	hdr := make([]byte, 8)
	copy(hdr[0:4], "data")
	binary.LittleEndian.PutUint32(hdr[4:8], 1000)
	raw = append(raw, hdr...)
	raw = append(raw, make([]byte, 6)...) // only 6 bytes on disk

	path := writeTemp(t, raw)
	info, err := ParseHeader(path)
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	if info.DataSize != 6 {
		t.Errorf("expected clamped size 6, got %d", info.DataSize)
	}
	if info.DataOffset+info.DataSize != uint64(len(raw)) {
		t.Errorf("data region exceeds file: offset=%d size=%d file=%d",
			info.DataOffset, info.DataSize, len(raw))
	}
}

func TestParseHeaderEncodedFile(t *testing.T) {
	// A file produced by the go-audio encoder should round-trip cleanly.
	path := filepath.Join(t.TempDir(), "encoded.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating file: %v", err)
	}

	enc := wav.NewEncoder(f, 8000, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 8000},
		Data:           []int{100, -100, 200, -200, 300, -300},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encoding: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("closing encoder: %v", err)
	}
	f.Close()

	info, err := ParseHeader(path)
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	if info.SampleRate != 8000 || info.Channels != 1 || info.BitsPerSample != 16 {
		t.Errorf("unexpected format: %+v", info)
	}
	if info.Frames() != 6 {
		t.Errorf("expected 6 frames, got %d", info.Frames())
	}
}
