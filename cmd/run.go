package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/placement/internal/app"
	"github.com/abhisek/placement/internal/audio"
	"github.com/abhisek/placement/internal/flow"
	"github.com/abhisek/placement/internal/llm"
	"github.com/abhisek/placement/internal/review"
	"github.com/abhisek/placement/internal/speech"
)

// runApp opens the store, builds dependencies, and launches the TUI at
// the given state.
func runApp(cmd *cobra.Command, start flow.State) error {
	ctx := cmd.Context()
	st, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	eventRepo := st.EventRepo()
	opts := app.Options{
		History:   st.History(),
		Reviews:   st.ReviewRepo(),
		OpenAudio: audio.Opener(cfg.AudioPlayer),
		StartAt:   start,
	}
	if cfg.Debug {
		opts.LogFile = cfg.LogFile
	}

	if cfg.LLMConfigured {
		provider, err := llm.NewProvider(ctx, cfg.LLM, eventRepo)
		if err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "The review assistant will be unavailable.")
		} else {
			opts.Reviewer = review.NewService(provider, st.ReviewRepo(), review.DefaultConfig())
		}
	}

	if cfg.SpeechConfigured {
		synth, err := speech.New(ctx, cfg.Speech, eventRepo)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Speech provider not configured:", err)
			fmt.Fprintln(os.Stderr, "Listening questions will not play audio.")
		} else {
			opts.Synth = synth
		}
	}

	return app.Run(opts)
}
