package media

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestIsSupported(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"talk.wav", true},
		{"video.MP4", true},
		{"clip.webm", true},
		{"notes.txt", false},
		{"archive.zip", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := IsSupported(tt.path); got != tt.want {
			t.Errorf("IsSupported(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestBytesToFloat32(t *testing.T) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint16(buf[0:], 0)
	binary.LittleEndian.PutUint16(buf[2:], uint16(16384))
	binary.LittleEndian.PutUint16(buf[4:], uint16(32767))
	binary.LittleEndian.PutUint16(buf[6:], uint16(0x8000)) // -32768

	got := bytesToFloat32(buf)
	want := []float32{0, 0.5, 32767.0 / 32768.0, -1.0}
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBytesToFloat32OddLength(t *testing.T) {
	if got := bytesToFloat32([]byte{0x01, 0x02, 0x03}); len(got) != 1 {
		t.Errorf("got %d samples, want 1 (trailing byte ignored)", len(got))
	}
}
