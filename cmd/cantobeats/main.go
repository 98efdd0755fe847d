// Command cantobeats transcribes a Cantonese audio or video file into
// styled subtitles from the terminal.
//
// Usage:
//
//	cantobeats -input talk.mp4
//	cantobeats -input talk.mp4 -formats srt,ass,fcpxml -register written -english translate
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mance-cyber/Canto-Beats-Apps/internal/asr"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/llm"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/media"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/mt"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/pipeline"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/style"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/subtitle"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/vad"
)

func main() {
	inputPath := flag.String("input", "", "Input audio/video file")
	outputDir := flag.String("output-dir", ".", "Directory for subtitle files")
	formatsFlag := flag.String("formats", "srt", "Comma-separated output formats: srt,ass,fcpxml,txt")
	register := flag.String("register", "colloquial", "Output register: colloquial, semi, written")
	english := flag.String("english", "keep", "Embedded English handling: keep, translate, annotate")
	numerals := flag.String("numerals", "arabic", "Numeral rendering: arabic, chinese")
	profanity := flag.String("profanity", "keep", "Strong language handling: keep, mask, mild")
	vocab := flag.String("vocab", "", "Comma-separated custom vocabulary terms")
	asrModelDir := flag.String("asr-model", "models/sherpa-onnx-whisper-large-v3", "ASR model directory")
	vadModel := flag.String("vad-model", "models/silero_vad.onnx", "VAD model path (empty to disable)")
	maxGap := flag.Float64("max-gap", subtitle.DefaultMaxGap, "Maximum merge gap in seconds")
	llmModel := flag.String("llm-model", "qwen2.5:7b", "LLM model name for English translation")
	mtURL := flag.String("mt-url", "", "Machine translation server URL (empty for default)")
	flag.Parse()

	if *inputPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	formats, err := subtitle.ParseFormats(*formatsFlag)
	if err != nil {
		log.Fatal(err)
	}

	// Ctrl-C cancels at the next stage boundary.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if duration, err := media.Duration(ctx, *inputPath); err == nil {
		fmt.Printf("audio duration: %.1f seconds\n", duration)
	}

	engineCfg := &style.Config{}
	var llmClient *llm.Client
	if *english != string(style.EnglishKeep) {
		llmClient = llm.NewClient(llm.DefaultConfig(*llmModel))
		engineCfg.LLM = llmClient
		mtConfig := mt.DefaultConfig()
		if *mtURL != "" {
			mtConfig.BaseURL = *mtURL
		}
		engineCfg.MT = mt.NewClient(mtConfig)
	}

	config := &pipeline.Config{
		ASR:    asr.DefaultConfig(*asrModelDir),
		Engine: style.NewEngine(engineCfg),
	}
	if *vadModel != "" {
		config.VAD = vad.DefaultConfig(*vadModel)
	}
	if llmClient != nil {
		config.UnloadLLM = llmClient.Unload
	}

	p, err := pipeline.New(config)
	if err != nil {
		log.Fatal(err)
	}

	opts := pipeline.DefaultOptions()
	opts.InputPath = *inputPath
	opts.OutputDir = *outputDir
	opts.Formats = formats
	opts.MaxGap = *maxGap
	opts.CustomVocabulary = *vocab
	opts.Style.Register = style.Register(*register)
	opts.Style.English = style.EnglishMode(*english)
	opts.Style.Numerals = style.NumeralFormat(*numerals)
	opts.Style.Profanity = style.ProfanityMode(*profanity)

	result, err := p.Run(ctx, opts, func(percent int, step string) {
		fmt.Printf("\r[%3d%%] %-28s", percent, step)
	})
	fmt.Println()
	if err != nil {
		log.Fatal(err)
	}

	for _, w := range result.Warnings {
		log.Printf("warning: %s", w)
	}
	fmt.Printf("%d segments\n", len(result.Segments))
	for _, path := range result.OutputPaths {
		fmt.Println(path)
	}
}
