// Package wav implements a minimal RIFF/WAV container codec for 16-bit signed
// little-endian PCM audio.
//
// The pipeline works with complete in-memory WAV clips rather than streams:
// synthesis providers return whole files, chunked utterances are decoded back
// to PCM and concatenated, and silence placeholders are generated locally.
// Only uncompressed PCM (audio format 1) is supported.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// ErrNotWAV is returned by [Decode] when the input is not a parseable
// RIFF/WAVE file or uses a compression format other than PCM.
var ErrNotWAV = errors.New("data is not a PCM WAV file")

// ErrFormatMismatch is returned by [Concat] when the inputs do not share an
// identical sample format.
var ErrFormatMismatch = errors.New("wav inputs have mismatched formats")

// ErrNoChunks is returned by [Concat] when called with no inputs.
var ErrNoChunks = errors.New("no wav chunks to concatenate")

// headerSize is the fixed size of the canonical 44-byte WAV header written by
// [Encode] (RIFF descriptor + PCM fmt sub-chunk + data sub-chunk header).
const headerSize = 44

// Format describes the sample format of a PCM clip.
type Format struct {
	// SampleRate in Hz (e.g. 22050).
	SampleRate int

	// Channels is the number of interleaved channels (1 = mono).
	Channels int

	// BitsPerSample is the sample width in bits. Only 16 is produced by this
	// pipeline, but Decode reports whatever the file declares.
	BitsPerSample int
}

// bytesPerSecond returns the PCM data rate for the format, or 0 when the
// format is not fully specified.
func (f Format) bytesPerSecond() int {
	return f.SampleRate * f.Channels * f.BitsPerSample / 8
}

// Encode wraps raw little-endian PCM data in a canonical 44-byte RIFF/WAV
// header. The pcm slice is copied; the result is safe to retain.
func Encode(pcm []byte, f Format) []byte {
	byteRate := f.bytesPerSecond()
	blockAlign := f.Channels * f.BitsPerSample / 8
	dataSize := len(pcm)

	buf := make([]byte, headerSize+dataSize)

	// RIFF chunk descriptor
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize)) // file size - 8
	copy(buf[8:12], "WAVE")

	// fmt sub-chunk
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16) // sub-chunk size (PCM)
	binary.LittleEndian.PutUint16(buf[20:22], 1)  // audio format: PCM
	binary.LittleEndian.PutUint16(buf[22:24], uint16(f.Channels))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(f.SampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], uint16(f.BitsPerSample))

	// data sub-chunk
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))
	copy(buf[44:], pcm)

	return buf
}

// Decode extracts the PCM payload and sample format from a RIFF/WAVE file.
// Sub-chunks other than "fmt " and "data" (e.g. LIST metadata) are skipped, so
// files produced by other encoders decode as long as they carry plain PCM.
// The returned PCM slice is a copy of the payload.
func Decode(data []byte) ([]byte, Format, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, Format{}, fmt.Errorf("%w: missing RIFF/WAVE header", ErrNotWAV)
	}

	var (
		f       Format
		pcm     []byte
		sawFmt  bool
		sawData bool
	)

	// Walk the sub-chunks after the 12-byte RIFF descriptor.
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if size < 0 || body+size > len(data) {
			return nil, Format{}, fmt.Errorf("%w: truncated %q sub-chunk", ErrNotWAV, id)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, Format{}, fmt.Errorf("%w: fmt sub-chunk too short", ErrNotWAV)
			}
			audioFormat := binary.LittleEndian.Uint16(data[body : body+2])
			if audioFormat != 1 {
				return nil, Format{}, fmt.Errorf("%w: unsupported audio format %d", ErrNotWAV, audioFormat)
			}
			f.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			f.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			f.BitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			sawFmt = true
		case "data":
			pcm = make([]byte, size)
			copy(pcm, data[body:body+size])
			sawData = true
		}

		// Sub-chunks are word-aligned; odd sizes carry a pad byte.
		pos = body + size + size%2
	}

	if !sawFmt || !sawData {
		return nil, Format{}, fmt.Errorf("%w: missing fmt or data sub-chunk", ErrNotWAV)
	}
	return pcm, f, nil
}

// Silence returns a complete WAV clip of digital silence with the given
// duration. Durations below zero are treated as zero.
func Silence(d time.Duration, f Format) []byte {
	if d < 0 {
		d = 0
	}
	n := int(d.Seconds() * float64(f.bytesPerSecond()))
	// Round down to a whole frame so the clip stays block-aligned.
	frame := f.Channels * f.BitsPerSample / 8
	if frame > 0 {
		n -= n % frame
	}
	return Encode(make([]byte, n), f)
}

// Duration returns the playback length of a WAV clip, or 0 when the clip
// cannot be decoded.
func Duration(data []byte) time.Duration {
	pcm, f, err := Decode(data)
	if err != nil || f.bytesPerSecond() == 0 {
		return 0
	}
	return time.Duration(float64(len(pcm)) / float64(f.bytesPerSecond()) * float64(time.Second))
}

// Concat joins multiple WAV clips into one, preserving input order. All clips
// must decode to the same [Format]; a single input is returned unchanged and
// zero inputs yield [ErrNoChunks].
func Concat(clips [][]byte) ([]byte, error) {
	switch len(clips) {
	case 0:
		return nil, ErrNoChunks
	case 1:
		return clips[0], nil
	}

	var (
		combined []byte
		format   Format
	)
	for i, clip := range clips {
		pcm, f, err := Decode(clip)
		if err != nil {
			return nil, fmt.Errorf("decode clip %d: %w", i, err)
		}
		if i == 0 {
			format = f
		} else if f != format {
			return nil, fmt.Errorf("%w: clip %d is %+v, want %+v", ErrFormatMismatch, i, f, format)
		}
		combined = append(combined, pcm...)
	}
	return Encode(combined, format), nil
}
