package youtube

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain title", "plain title"},
		{"a/b\\c:d", "a_b_c_d"},
		{"what? <why> | \"quote\"", "what_ _why_ _ _quote_"},
		{"廣東話教室", "廣東話教室"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"audio/mp4; codecs=\"mp4a.40.2\"", ".m4a"},
		{"audio/webm; codecs=\"opus\"", ".webm"},
		{"audio/unknown", ".audio"},
	}
	for _, tt := range tests {
		if got := extensionFor(tt.mime); got != tt.want {
			t.Errorf("extensionFor(%q) = %q, want %q", tt.mime, got, tt.want)
		}
	}
}
