// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Sized is implemented by sources that know their length in frames up front.
type Sized interface {
	Frames() int64
}

// Duration reports the playing time of src when it implements Sized.
func Duration(src Source) (time.Duration, bool) {
	sized, ok := src.(Sized)
	if !ok || src.SampleRate() <= 0 {
		return 0, false
	}

	return FramesToDuration(sized.Frames(), src.SampleRate()), true
}

// FramesToDuration converts a frame count at rate into a time offset.
func FramesToDuration(frames int64, rate int) time.Duration {
	if rate <= 0 {
		return 0
	}

	secs := frames / int64(rate)
	rem := frames % int64(rate)

	return time.Duration(secs)*time.Second + time.Duration(rem)*time.Second/time.Duration(rate)
}

// DurationToFrames converts a time offset into a frame index at rate, rounding down.
func DurationToFrames(d time.Duration, rate int) int64 {
	if d <= 0 || rate <= 0 {
		return 0
	}

	secs := int64(d / time.Second)
	rem := int64(d % time.Second)

	return secs*int64(rate) + rem*int64(rate)/int64(time.Second)
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry for decoders by format key (e.g., "wav", "aiff").
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[strings.ToLower(format)] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[strings.ToLower(format)]
	return d, ok
}

// Lookup resolves the decoder for a file path by its extension.
// The format key that matched is returned alongside the decoder.
func (r *Registry) Lookup(path string) (Decoder, string, bool) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		return nil, "", false
	}

	d, ok := r.Get(format)
	return d, format, ok
}

// Formats lists the registered format keys in sorted order.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	formats := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		formats = append(formats, k)
	}
	slices.Sort(formats)

	return formats
}
