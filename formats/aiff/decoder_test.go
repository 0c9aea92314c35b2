// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math/bits"
	"testing"

	"github.com/ik5/audtrim/audio"
)

// extended encodes an integer sample rate as an 80-bit IEEE extended float.
func extended(rate int) [10]byte {
	var out [10]byte
	exp := bits.Len64(uint64(rate)) - 1
	binary.BigEndian.PutUint16(out[0:2], uint16(16383+exp))
	binary.BigEndian.PutUint64(out[2:10], uint64(rate)<<(63-exp))

	return out
}

// aiff16 builds a minimal big-endian 16-bit AIFF file.
func aiff16(sampleRate, channels int, samples []int16) []byte {
	comm := new(bytes.Buffer)
	_ = binary.Write(comm, binary.BigEndian, int16(channels))
	_ = binary.Write(comm, binary.BigEndian, uint32(len(samples)/channels))
	_ = binary.Write(comm, binary.BigEndian, int16(16))
	rate := extended(sampleRate)
	comm.Write(rate[:])

	ssnd := new(bytes.Buffer)
	_ = binary.Write(ssnd, binary.BigEndian, uint32(0)) // offset
	_ = binary.Write(ssnd, binary.BigEndian, uint32(0)) // block size
	_ = binary.Write(ssnd, binary.BigEndian, samples)

	body := new(bytes.Buffer)
	body.WriteString("AIFF")
	body.WriteString("COMM")
	_ = binary.Write(body, binary.BigEndian, uint32(comm.Len()))
	body.Write(comm.Bytes())
	body.WriteString("SSND")
	_ = binary.Write(body, binary.BigEndian, uint32(ssnd.Len()))
	body.Write(ssnd.Bytes())

	out := new(bytes.Buffer)
	out.WriteString("FORM")
	_ = binary.Write(out, binary.BigEndian, uint32(body.Len()))
	out.Write(body.Bytes())

	return out.Bytes()
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"text", []byte("This is not AIFF data")},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := (Decoder{}).Decode(bytes.NewReader(tt.data)); err == nil {
				t.Error("Decode() error = nil, want error")
			}
		})
	}
}

func TestDecoder_Mono16(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 16384, -16384, 8192}
	src, err := Decoder{}.Decode(bytes.NewReader(aiff16(8000, 1, samples)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	defer src.Close()

	if src.SampleRate() != 8000 || src.Channels() != 1 {
		t.Errorf("format = %d Hz / %d ch, want 8000 / 1", src.SampleRate(), src.Channels())
	}
	if frames := src.(audio.Sized).Frames(); frames != 4 {
		t.Errorf("Frames = %d, want 4", frames)
	}

	dst := make([]float32, 8)
	total := 0
	for {
		n, err := src.ReadSamples(dst[total:])
		total += n
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples: %v", err)
		}
	}

	want := []float32{0, 0.5, -0.5, 0.25}
	if total != len(want) {
		t.Fatalf("read %d samples, want %d", total, len(want))
	}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestDecoder_NonSeekableReader(t *testing.T) {
	t.Parallel()

	data := aiff16(44100, 2, []int16{1, 2, 3, 4})
	src, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if d, ok := audio.Duration(src); !ok || d <= 0 {
		t.Errorf("Duration = %v, %v", d, ok)
	}
}
