// Package media turns input audio and video files into the 16kHz
// mono float32 sample stream the recognizer and detector consume.
// Decoding is delegated to ffmpeg; nothing here parses containers.
package media

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// SampleRate is the pipeline-wide sample rate. Both models are
// trained on 16kHz input.
const SampleRate = 16000

var (
	// ErrUnsupportedFormat is returned for file types ffmpeg is not
	// asked to decode.
	ErrUnsupportedFormat = errors.New("unsupported media format")
	// ErrDecode wraps ffmpeg/ffprobe failures.
	ErrDecode = errors.New("media decode failed")
)

var supportedExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".m4a":  true,
	".aac":  true,
	".flac": true,
	".ogg":  true,
	".opus": true,
	".wma":  true,
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".avi":  true,
	".webm": true,
	".m4v":  true,
	".ts":   true,
}

// IsSupported reports whether the file extension is one the pipeline
// accepts.
func IsSupported(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// ExtractSamples decodes any supported media file to 16kHz mono
// float32 samples by piping raw PCM out of ffmpeg. Video inputs work
// the same way; ffmpeg drops the video stream.
func ExtractSamples(ctx context.Context, inputPath string) ([]float32, error) {
	if !IsSupported(inputPath) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(inputPath))
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", inputPath,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(SampleRate),
		"-ac", "1",
		"-loglevel", "error",
		"pipe:1",
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: ffmpeg: %v: %s", ErrDecode, err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("%w: no audio stream in %s", ErrDecode, inputPath)
	}
	return bytesToFloat32(stdout.Bytes()), nil
}

// Duration returns the media duration in seconds via ffprobe.
func Duration(ctx context.Context, inputPath string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inputPath,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("%w: ffprobe: %v", ErrDecode, err)
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parse duration: %v", ErrDecode, err)
	}
	return seconds, nil
}

// bytesToFloat32 converts little-endian signed 16-bit PCM to
// normalized float32 samples.
func bytesToFloat32(data []byte) []float32 {
	samples := make([]float32, len(data)/2)
	for i := range samples {
		sample := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float32(sample) / 32768.0
	}
	return samples
}
