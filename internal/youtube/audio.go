// Package youtube downloads the audio track of a video for
// transcription.
package youtube

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ytdl "github.com/kkdai/youtube/v2"
)

// Client wraps the YouTube download library.
type Client struct {
	client ytdl.Client
}

// NewClient creates a new YouTube client.
func NewClient() *Client {
	return &Client{client: ytdl.Client{}}
}

// VideoInfo is the metadata the pipeline cares about.
type VideoInfo struct {
	ID       string
	Title    string
	Author   string
	Duration float64 // seconds
}

// GetVideoInfo fetches video metadata.
func (c *Client) GetVideoInfo(ctx context.Context, url string) (*VideoInfo, error) {
	video, err := c.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return &VideoInfo{
		ID:       video.ID,
		Title:    video.Title,
		Author:   video.Author,
		Duration: video.Duration.Seconds(),
	}, nil
}

// extensionFor maps an audio MIME type to a file extension.
func extensionFor(mimeType string) string {
	if strings.Contains(mimeType, "mp4") {
		return ".m4a"
	}
	if strings.Contains(mimeType, "webm") {
		return ".webm"
	}
	return ".audio"
}

// DownloadAudio downloads the best audio-only stream into outputDir
// and returns the written file path. Video streams are never
// fetched; the pipeline only needs audio.
func (c *Client) DownloadAudio(ctx context.Context, url, outputDir string) (string, error) {
	video, err := c.client.GetVideoContext(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to get video: %w", err)
	}

	var audioFormats []ytdl.Format
	for _, f := range video.Formats {
		if strings.HasPrefix(f.MimeType, "audio/") {
			audioFormats = append(audioFormats, f)
		}
	}
	if len(audioFormats) == 0 {
		return "", fmt.Errorf("no audio formats available for %s", video.ID)
	}
	sort.Slice(audioFormats, func(i, j int) bool {
		return audioFormats[i].Bitrate > audioFormats[j].Bitrate
	})
	format := &audioFormats[0]

	stream, _, err := c.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return "", fmt.Errorf("failed to get stream: %w", err)
	}
	defer stream.Close()

	outputPath := filepath.Join(outputDir, sanitizeFilename(video.Title)+extensionFor(format.MimeType))
	file, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, stream); err != nil {
		os.Remove(outputPath)
		return "", fmt.Errorf("failed to download: %w", err)
	}
	return outputPath, nil
}

// sanitizeFilename replaces characters not usable in file names.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}
