package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/placement/internal/audio"
	"github.com/abhisek/placement/internal/llm"
	"github.com/abhisek/placement/internal/speech"
)

var speakCmd = &cobra.Command{
	Use:   "speak <text>",
	Short: "Synthesize a line of text and play it (audio diagnostics)",
	Long: `Synthesize text with the configured speech provider and play it on the
audio device, the same way listening questions do.

Useful for checking API keys, the selected voice and the audio player.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSpeak,
}

func init() {
	speakCmd.Flags().String("voice", "", "Voice name (overrides PLACEMENT_SPEECH_VOICE)")
	speakCmd.Flags().Bool("no-play", false, "Synthesize only, do not play")
}

func runSpeak(cmd *cobra.Command, args []string) error {
	ctx := llm.WithPurpose(cmd.Context(), "speak")
	voice, _ := cmd.Flags().GetString("voice")
	noPlay, _ := cmd.Flags().GetBool("no-play")

	s, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if !cfg.SpeechConfigured {
		return errors.New("no speech provider configured (set PLACEMENT_SPEECH_PROVIDER or GEMINI_API_KEY)")
	}
	if voice != "" {
		cfg.Speech.Voice = voice
	}

	synth, err := speech.New(ctx, cfg.Speech, s.EventRepo())
	if err != nil {
		return fmt.Errorf("create synthesizer: %w", err)
	}

	text := strings.Join(args, " ")
	fmt.Printf("Synthesizing with %s (%s)...\n", synth.Name(), synth.ModelID())
	start := time.Now()
	clip, err := synth.Synthesize(ctx, text)
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}

	buf, err := audio.Decode(clip.Data, clip.SampleRate, clip.Channels)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	fmt.Printf("Got %s of audio (%d bytes) in %s\n",
		buf.Duration().Round(10*time.Millisecond), len(clip.Data), time.Since(start).Round(time.Millisecond))

	if noPlay {
		return nil
	}

	dev, err := audio.OpenCommand(cfg.AudioPlayer)
	if err != nil {
		return err
	}
	defer dev.Close()

	if err := dev.Play(ctx, buf); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	return nil
}
