// Command speak sends one text to the Hugging Face speech model and writes the
// returned audio to a file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/futig/medi-assistant/internal/config"
	"github.com/futig/medi-assistant/internal/entity"
	"github.com/futig/medi-assistant/internal/integration/speech"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const defaultText = "Hello! This is your Virtual Medi Assistant. Please rest, drink plenty of water and consult a doctor if your symptoms get worse."

type speakConfig struct {
	HFAPIKey string                       `env:"HF_API_KEY"`
	Speech   config.SpeechConnectorConfig `envPrefix:"SPEECH_"`
}

func main() {
	os.Exit(run())
}

func run() int {
	text := flag.String("text", defaultText, "text to synthesize")
	out := flag.String("out", "output.mp3", "output file")
	model := flag.String("model", "", "speech model, defaults to SPEECH_MODEL")
	lang := flag.String("lang", string(entity.DefaultLanguage), "language of the text")
	timeout := flag.Duration("timeout", 2*time.Minute, "request timeout")
	flag.Parse()

	_ = godotenv.Load(".env.local")

	var cfg speakConfig
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
		return 1
	}
	if *model != "" {
		cfg.Speech.Model = *model
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	connector := speech.NewHuggingFaceConnector(cfg.Speech, cfg.HFAPIKey, logger)
	audio, err := connector.Synthesize(ctx, &entity.SpeechRequest{
		Text:     *text,
		Language: entity.Language(*lang),
	})
	if err != nil {
		if entity.KindOf(err) == entity.FailureConfigurationMissing {
			fmt.Println(entity.PlaceholderConfigurationMissing)
			return 0
		}
		fmt.Fprintf(os.Stderr, "speech synthesis failed: %v\n", err)
		return 1
	}

	if err := os.WriteFile(*out, audio.Data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *out, err)
		return 1
	}

	fmt.Printf("Saved %d bytes of %s to %s\n", len(audio.Data), audio.ContentType, *out)
	return 0
}
