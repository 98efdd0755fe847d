package style

import "testing"

func newTestEngine(cfg *Config) *Engine {
	return NewEngine(cfg)
}

func TestConvertRegisterFormal(t *testing.T) {
	e := newTestEngine(nil)
	tests := []struct {
		in   string
		want string
	}{
		{"我哋食咗飯", "我們吃了飯"},
		{"佢唔係老師", "他不是老師"},
		{"你睇下呢度啲嘢", "你看下這裡些東西"},
		{"冇問題", "沒有問題"},
	}
	for _, tt := range tests {
		if got := convertRegister(tt.in, e.registerKeys, RegisterFormal); got != tt.want {
			t.Errorf("formal(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConvertRegisterLongestMatchWins(t *testing.T) {
	e := newTestEngine(nil)
	// 你哋 must map as one unit; 佢 alone must not shadow 佢哋.
	got := convertRegister("你哋同佢哋傾偈", e.registerKeys, RegisterFormal)
	want := "你們同他們聊天"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestConvertRegisterSemiKeepsCantoneseWords(t *testing.T) {
	e := newTestEngine(nil)
	// Semi rewrites 係→是 but keeps 睇 and 嘅.
	got := convertRegister("佢係我嘅朋友，去睇戲", e.registerKeys, RegisterSemiFormal)
	want := "他是我嘅朋友，去睇戲"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestConvertRegisterColloquialIdentity(t *testing.T) {
	e := newTestEngine(nil)
	in := "我哋食咗飯嘅"
	if got := convertRegister(in, e.registerKeys, RegisterColloquial); got != in {
		t.Errorf("colloquial changed text: %q", got)
	}
}

func TestApplyCorrections(t *testing.T) {
	e := newTestEngine(nil)
	tests := []struct {
		in   string
		want string
	}{
		{"宜家去邊", "而家去邊"},
		{"唔洗客氣", "唔使客氣"},
		{"(音樂)你好", "你好"},
		{"【掌聲】多謝", "多謝"},
		{"既然係咁", "既然係咁"},
	}
	for _, tt := range tests {
		if got := applyCorrections(tt.in, e.correctionKeys); got != tt.want {
			t.Errorf("applyCorrections(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
