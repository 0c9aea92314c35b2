// SPDX-License-Identifier: EPL-2.0

// Package audio provides the pull-based streaming primitives the trim pipeline
// is assembled from.
//
//   - Source interface for audio input
//   - Window for restricting a source to a time range
//   - MonoMixer for channel mixing
//   - Resampler for sample rate conversion
//   - Registry for resolving container decoders by extension
//
// # Source Interface
//
// Every decoder and processing stage implements Source:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Stages are chained by wrapping, and data only moves when the last stage is
// asked for samples, so a long recording is never held in memory.
//
// # Export Chain
//
// Exporting a selection re-encodes it with a quality preset. The chain is:
//
//	window, _ := audio.NewWindow(src, start, end)
//	mono := audio.NewMonoMixer(window)
//	out := audio.NewResampler(mono, 12000)
//
// Window discards frames before start in bounded chunks and stops at end.
// Sources that know their length implement Sized, and Duration reports it.
//
// # Sample Format
//
// Audio samples are float32 in the range [-1.0, 1.0], interleaved by channel.
//
// # Error Handling
//
// ReadSamples returns io.EOF when no more data is available, possibly together
// with the last samples. Other errors are wrapped with fmt.Errorf("%w"), so
// callers match them with errors.Is:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    // use buf[:n]
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
package audio
