package subtitle

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Format identifies a subtitle output format.
type Format string

const (
	FormatSRT    Format = "srt"
	FormatASS    Format = "ass"
	FormatFCPXML Format = "fcpxml"
	FormatTXT    Format = "txt"
)

// ErrExportIO wraps write failures during export. The write is
// best-effort: a failed export leaves no guarantee about the partial
// file's contents.
var ErrExportIO = errors.New("subtitle export write failed")

// ParseFormats parses a comma-separated format list like "srt,ass".
func ParseFormats(s string) ([]Format, error) {
	var formats []Format
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch f := Format(strings.ToLower(part)); f {
		case FormatSRT, FormatASS, FormatFCPXML, FormatTXT:
			formats = append(formats, f)
		default:
			return nil, fmt.Errorf("unknown subtitle format %q", part)
		}
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("no subtitle formats given")
	}
	return formats, nil
}

// Export serializes segments to path in the given format.
func Export(segments []StyledSegment, path string, format Format) error {
	var content string
	switch format {
	case FormatSRT:
		content = FormatSRTText(segments)
	case FormatASS:
		content = FormatASSText(segments)
	case FormatFCPXML:
		content = FormatFCPXMLText(segments, "")
	case FormatTXT:
		content = FormatPlainText(segments)
	default:
		return fmt.Errorf("unknown subtitle format %q", format)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrExportIO, err)
	}
	return nil
}

// FormatSRTText renders the SRT document: 1-based sequence number,
// timecode line, text, blank separator.
func FormatSRTText(segments []StyledSegment) string {
	var b strings.Builder
	for i, seg := range segments {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", srtTimestamp(seg.Span.Start), srtTimestamp(seg.Span.End))
		b.WriteString(seg.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}

// FormatASSText renders an ASS document with a single default style.
// Newlines inside cue text become the literal \N escape.
func FormatASSText(segments []StyledSegment) string {
	var b strings.Builder
	b.WriteString("[Script Info]\n")
	b.WriteString("Title: Canto Beats Export\n")
	b.WriteString("ScriptType: v4.00+\n")
	b.WriteString("WrapStyle: 0\n")
	b.WriteString("ScaledBorderAndShadow: yes\n")
	b.WriteString("PlayResX: 1920\n")
	b.WriteString("PlayResY: 1080\n")
	b.WriteString("\n")
	b.WriteString("[V4+ Styles]\n")
	b.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	b.WriteString("Style: Default,PingFang HK,60,&H00FFFFFF,&H000000FF,&H00000000,&H80000000,0,0,0,0,100,100,0,0,1,2,1,2,10,10,40,1\n")
	b.WriteString("\n")
	b.WriteString("[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, seg := range segments {
		text := strings.ReplaceAll(seg.Text, "\n", `\N`)
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			assTimestamp(seg.Span.Start), assTimestamp(seg.Span.End), text)
	}
	return b.String()
}

// FormatPlainText renders bare text lines, one per segment.
func FormatPlainText(segments []StyledSegment) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.Text)
		b.WriteString("\n")
	}
	return b.String()
}
