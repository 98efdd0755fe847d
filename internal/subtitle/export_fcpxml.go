package subtitle

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Final Cut Pro exchange parameters. Times in FCPXML are rational
// frame counts against a fixed reference format, not wall-clock
// strings, so everything here is expressed over a 30fps timebase.
const (
	fcpFPS        = 30
	fcpFormatName = "FFVideoFormat1080p30"
	fcpEffectUID  = ".../Titles.localized/Build In:Out.localized/Custom.localized/Custom.moti"
)

// fcpFrames truncates seconds to a whole frame count at the timebase.
func fcpFrames(seconds float64) int {
	return int(seconds * fcpFPS)
}

// fcpTime renders a rational FCPXML time value like "45/30s".
func fcpTime(frames int) string {
	return fmt.Sprintf("%d/%ds", frames, fcpFPS)
}

func xmlEscape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}

// FormatFCPXMLText renders an FCPXML 1.10 document: one format
// resource, one title effect resource, and a spine carrying one title
// element per segment with a per-segment text style definition.
func FormatFCPXMLText(segments []StyledSegment, projectName string) string {
	if projectName == "" {
		projectName = "Canto Beats Subtitles"
	}
	totalFrames := 0
	if n := len(segments); n > 0 {
		totalFrames = fcpFrames(segments[n-1].Span.End)
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString("<!DOCTYPE fcpxml>\n")
	b.WriteString(`<fcpxml version="1.10">` + "\n")
	b.WriteString("    <resources>\n")
	fmt.Fprintf(&b, "        <format id=\"r1\" name=\"%s\" frameDuration=\"1/%ds\" width=\"1920\" height=\"1080\" colorSpace=\"1-1-1 (Rec. 709)\"/>\n", fcpFormatName, fcpFPS)
	fmt.Fprintf(&b, "        <effect id=\"r2\" name=\"Custom\" uid=\"%s\"/>\n", fcpEffectUID)
	b.WriteString("    </resources>\n")
	b.WriteString("    <library>\n")
	fmt.Fprintf(&b, "        <event name=\"%s\">\n", xmlEscape(projectName))
	fmt.Fprintf(&b, "            <project name=\"%s\">\n", xmlEscape(projectName))
	fmt.Fprintf(&b, "                <sequence format=\"r1\" duration=\"%s\" tcStart=\"0s\" tcFormat=\"NDF\">\n", fcpTime(totalFrames))
	b.WriteString("                    <spine>\n")
	for i, seg := range segments {
		offset := fcpFrames(seg.Span.Start)
		duration := fcpFrames(seg.Span.End) - offset
		if duration < 1 {
			duration = 1
		}
		styleID := fmt.Sprintf("ts%d", i+1)
		text := xmlEscape(seg.Text)
		fmt.Fprintf(&b, "                        <title ref=\"r2\" offset=\"%s\" duration=\"%s\" name=\"%s\">\n",
			fcpTime(offset), fcpTime(duration), text)
		b.WriteString("                            <text>\n")
		fmt.Fprintf(&b, "                                <text-style ref=\"%s\">%s</text-style>\n", styleID, text)
		b.WriteString("                            </text>\n")
		fmt.Fprintf(&b, "                            <text-style-def id=\"%s\">\n", styleID)
		b.WriteString("                                <text-style font=\"PingFang HK\" fontSize=\"54\" fontFace=\"Semibold\" fontColor=\"1 1 1 1\" alignment=\"center\"/>\n")
		b.WriteString("                            </text-style-def>\n")
		b.WriteString("                        </title>\n")
	}
	b.WriteString("                    </spine>\n")
	b.WriteString("                </sequence>\n")
	b.WriteString("            </project>\n")
	b.WriteString("        </event>\n")
	b.WriteString("    </library>\n")
	b.WriteString("</fcpxml>\n")
	return b.String()
}
