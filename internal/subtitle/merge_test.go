package subtitle

import (
	"errors"
	"testing"
)

func span(start, end float64) TimeSpan {
	return TimeSpan{Start: start, End: end}
}

func TestNewTimeSpan(t *testing.T) {
	tests := []struct {
		name    string
		start   float64
		end     float64
		wantErr bool
	}{
		{"valid", 0.0, 1.5, false},
		{"zero start", 0.0, 0.1, false},
		{"negative start", -0.1, 1.0, true},
		{"end equals start", 2.0, 2.0, true},
		{"end before start", 3.0, 2.0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTimeSpan(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewTimeSpan(%v, %v) error = %v, wantErr %v", tt.start, tt.end, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSegment) {
				t.Errorf("error %v is not ErrInvalidSegment", err)
			}
		})
	}
}

func TestMergeContainment(t *testing.T) {
	tests := []struct {
		name   string
		speech TimeSpan
		voice  TimeSpan
		want   TimeSpan
	}{
		{
			// The recognizer padded the segment with silence on both
			// sides; the detected voice trims it.
			name:   "interval inside segment",
			speech: span(0.0, 4.0),
			voice:  span(0.2, 3.8),
			want:   span(0.2, 3.8),
		},
		{
			name:   "segment inside interval",
			speech: span(1.0, 3.0),
			voice:  span(0.5, 3.5),
			want:   span(0.5, 3.5),
		},
		{
			// Partial overlap, neither contains the other: the
			// recognizer's span is kept.
			name:   "partial overlap keeps span",
			speech: span(1.0, 3.0),
			voice:  span(2.0, 4.0),
			want:   span(1.0, 3.0),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			speech := []SpeechSegment{{Span: tt.speech, Text: "我想食個lunch"}}
			voice := []VoiceInterval{{Span: tt.voice}}

			got, err := Merge(speech, voice, DefaultMaxGap)
			if err != nil {
				t.Fatalf("Merge: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("got %d segments, want 1", len(got))
			}
			if got[0].Span != tt.want {
				t.Errorf("span = %+v, want %+v", got[0].Span, tt.want)
			}
			if got[0].Text != "我想食個lunch" {
				t.Errorf("text = %q", got[0].Text)
			}
		})
	}
}

func TestMergeNoOverlapKeepsSpan(t *testing.T) {
	speech := []SpeechSegment{{Span: span(1.0, 2.0), Text: "好安靜"}}
	voice := []VoiceInterval{{Span: span(5.0, 6.0)}}

	got, err := Merge(speech, voice, DefaultMaxGap)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(got) != 1 || got[0].Span != span(1.0, 2.0) {
		t.Errorf("got %+v, want original span kept", got)
	}
}

func TestMergeMultipleOverlapsKeepsSpan(t *testing.T) {
	// Two intervals overlapping one segment: no split is attempted,
	// the recognizer's span wins even when the gap is large.
	speech := []SpeechSegment{{Span: span(0.0, 10.0), Text: "一段好長嘅話"}}
	voice := []VoiceInterval{
		{Span: span(0.5, 3.0)},
		{Span: span(7.0, 9.5)},
	}

	got, err := Merge(speech, voice, DefaultMaxGap)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(got) != 1 || got[0].Span != span(0.0, 10.0) {
		t.Errorf("got %+v, want single segment with original span", got)
	}
}

func TestMergeOrderingAndClamp(t *testing.T) {
	// The second segment's refined start moves earlier than the first
	// segment's end; the first end must be clamped down.
	speech := []SpeechSegment{
		{Span: span(0.0, 3.0), Text: "第一句"},
		{Span: span(3.1, 6.0), Text: "第二句"},
	}
	voice := []VoiceInterval{{Span: span(2.5, 6.5)}}

	got, err := Merge(speech, voice, DefaultMaxGap)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d segments, want 2", len(got))
	}
	for i := 0; i < len(got)-1; i++ {
		if got[i].Span.End > got[i+1].Span.Start {
			t.Errorf("segments %d and %d overlap: %+v %+v", i, i+1, got[i].Span, got[i+1].Span)
		}
	}
	if got[1].Span != span(2.5, 6.5) {
		t.Errorf("second span = %+v, want refined {2.5 6.5}", got[1].Span)
	}
	if got[0].Span.End != 2.5 {
		t.Errorf("first segment end = %v, want clamped to 2.5", got[0].Span.End)
	}
}

func TestMergeEdgeCases(t *testing.T) {
	t.Run("empty voice passes speech through", func(t *testing.T) {
		speech := []SpeechSegment{{Span: span(0.0, 1.0), Text: "a"}, {Span: span(1.5, 2.0), Text: "b"}}
		got, err := Merge(speech, nil, DefaultMaxGap)
		if err != nil {
			t.Fatalf("Merge: %v", err)
		}
		if len(got) != 2 || got[0].Span != span(0.0, 1.0) || got[1].Span != span(1.5, 2.0) {
			t.Errorf("got %+v, want unchanged spans", got)
		}
	})
	t.Run("empty speech yields empty output", func(t *testing.T) {
		got, err := Merge(nil, []VoiceInterval{{Span: span(0.0, 1.0)}}, DefaultMaxGap)
		if err != nil {
			t.Fatalf("Merge: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d segments, want 0", len(got))
		}
	})
	t.Run("empty text dropped", func(t *testing.T) {
		speech := []SpeechSegment{{Span: span(0.0, 1.0), Text: ""}}
		got, err := Merge(speech, nil, DefaultMaxGap)
		if err != nil {
			t.Fatalf("Merge: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d segments, want 0", len(got))
		}
	})
	t.Run("invalid speech span rejected", func(t *testing.T) {
		speech := []SpeechSegment{{Span: span(2.0, 1.0), Text: "x"}}
		if _, err := Merge(speech, nil, DefaultMaxGap); !errors.Is(err, ErrInvalidSegment) {
			t.Errorf("err = %v, want ErrInvalidSegment", err)
		}
	})
	t.Run("invalid voice span rejected", func(t *testing.T) {
		voice := []VoiceInterval{{Span: span(-1.0, 1.0)}}
		if _, err := Merge(nil, voice, DefaultMaxGap); !errors.Is(err, ErrInvalidSegment) {
			t.Errorf("err = %v, want ErrInvalidSegment", err)
		}
	})
}
