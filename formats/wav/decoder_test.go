// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/internal/audiotest"
)

// withJunkChunk inserts an even-sized unknown chunk between fmt and data.
func withJunkChunk(wavData []byte) []byte {
	const fmtEnd = 36
	junk := []byte{'J', 'U', 'N', 'K', 4, 0, 0, 0, 0, 0, 0, 0}

	out := make([]byte, 0, len(wavData)+len(junk))
	out = append(out, wavData[:fmtEnd]...)
	out = append(out, junk...)
	out = append(out, wavData[fmtEnd:]...)

	riffSize := binary.LittleEndian.Uint32(out[4:8])
	binary.LittleEndian.PutUint32(out[4:8], riffSize+uint32(len(junk)))

	return out
}

func readAll(t *testing.T, src audio.Source) []float32 {
	t.Helper()

	var out []float32
	buf := make([]float32, 3)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples: %v", err)
		}
	}
}

func TestDecoder_ValidWAVFile(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 16384, -16384, 8192, -8192, 0}
	src, err := Decoder{}.Decode(bytes.NewReader(audiotest.WAV16(8000, 1, samples)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	defer src.Close()

	if src.SampleRate() != 8000 {
		t.Errorf("SampleRate = %d, want 8000", src.SampleRate())
	}
	if src.Channels() != 1 {
		t.Errorf("Channels = %d, want 1", src.Channels())
	}

	sized, ok := src.(audio.Sized)
	if !ok {
		t.Fatal("wav source does not report its length")
	}
	if sized.Frames() != int64(len(samples)) {
		t.Errorf("Frames = %d, want %d", sized.Frames(), len(samples))
	}

	got := readAll(t, src)
	want := []float32{0, 0.5, -0.5, 0.25, -0.25, 0}
	if len(got) != len(want) {
		t.Fatalf("read %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecoder_StereoWAVFile(t *testing.T) {
	t.Parallel()

	samples := []int16{100, -100, 200, -200, 300, -300}
	src, err := Decoder{}.Decode(bytes.NewReader(audiotest.WAV16(44100, 2, samples)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if src.Channels() != 2 {
		t.Errorf("Channels = %d, want 2", src.Channels())
	}
	if got := src.(audio.Sized).Frames(); got != 3 {
		t.Errorf("Frames = %d, want 3", got)
	}
	if got := readAll(t, src); len(got) != len(samples) {
		t.Errorf("read %d samples, want %d", len(got), len(samples))
	}
}

func TestDecoder_Duration(t *testing.T) {
	t.Parallel()

	src, err := Decoder{}.Decode(bytes.NewReader(audiotest.WAV16(8000, 1, make([]int16, 12000))))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	d, ok := audio.Duration(src)
	if !ok || d.Seconds() != 1.5 {
		t.Errorf("Duration = %v, %v; want 1.5s, true", d, ok)
	}
}

func TestDecoder_NotWAVFile(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte("This is not a WAV file at all, really")))
	if !errors.Is(err, ErrNotWavFile) {
		t.Errorf("err = %v, want ErrNotWavFile", err)
	}
}

func TestDecoder_TruncatedHeader(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte("RIFF")))
	if err == nil {
		t.Error("expected an error for a truncated header")
	}
}

func TestDecoder_WithUnknownChunks(t *testing.T) {
	t.Parallel()

	samples := []int16{1000, 2000, 3000, 4000}
	data := withJunkChunk(audiotest.WAV16(16000, 1, samples))

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	got := readAll(t, src)
	if len(got) != len(samples) {
		t.Fatalf("read %d samples, want %d", len(got), len(samples))
	}
	if got[0] <= 0 || got[3] <= got[0] {
		t.Errorf("unexpected samples %v", got)
	}
}

func TestDecoder_NonSeekableReader(t *testing.T) {
	t.Parallel()

	data := audiotest.WAV16(8000, 1, []int16{1, 2, 3, 4, 5})
	src, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got := readAll(t, src); len(got) != 5 {
		t.Errorf("read %d samples, want 5", len(got))
	}
}

func TestSource_ReadSamples_EOF(t *testing.T) {
	t.Parallel()

	src, err := Decoder{}.Decode(bytes.NewReader(audiotest.WAV16(8000, 1, []int16{1, 2, 3, 4})))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	buf := make([]float32, 10)
	n, err := src.ReadSamples(buf)
	if n != 4 || !errors.Is(err, io.EOF) {
		t.Errorf("first read = %d, %v; want 4, EOF", n, err)
	}

	n, err = src.ReadSamples(buf)
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("second read = %d, %v; want 0, EOF", n, err)
	}
}

func TestSource_ReadSamples_EmptyBuffer(t *testing.T) {
	t.Parallel()

	src, err := Decoder{}.Decode(bytes.NewReader(audiotest.WAV16(8000, 1, []int16{1, 2})))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	n, err := src.ReadSamples(nil)
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v; want 0, nil", n, err)
	}
}

func TestSource_EmptyDataChunk(t *testing.T) {
	t.Parallel()

	src, err := Decoder{}.Decode(bytes.NewReader(audiotest.WAV16(8000, 1, nil)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	n, err := src.ReadSamples(make([]float32, 8))
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples = %d, %v; want 0, EOF", n, err)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	data := audiotest.WAV16(48000, 1, audiotest.Tone(48000, 1, 100, 12000))
	buf := make([]float32, 4096)

	for b.Loop() {
		src, err := Decoder{}.Decode(bytes.NewReader(data))
		if err != nil {
			b.Fatal(err)
		}
		for {
			if _, err := src.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
