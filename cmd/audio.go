package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/speaklens/speaklens/audio"
	"github.com/speaklens/speaklens/clients"
	"github.com/speaklens/speaklens/config"
	"github.com/speaklens/speaklens/report"
)

var audioCmd = &cobra.Command{
	Use:   "audio <media file>",
	Short: "Transcribe and score speaking quality per fixed window",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateAudio(); err != nil {
			return err
		}

		h := clients.NewHTTP(config.DurSeconds(cfg.Pipeline.TimeoutSec))
		scorer := audio.NewWindowScorer(
			clients.NewPitchTracker(h, cfg.Services.PitchTracker.URL),
			clients.NewQualityClassifier(h, cfg.Services.Quality.URL),
			cal, cfg.Audio.SampleRate, cfg.Paths.Scratch, log)
		pipe := audio.NewPipeline(cfg, clients.NewTranscriber(h, cfg.Services.ASR.URL), scorer, log)

		rep, err := pipe.Run(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		dir, err := report.NewSessionDir(cfg.Paths.Outputs)
		if err != nil {
			return err
		}
		out := filepath.Join(dir, "audio_analysis.json")
		if err := report.WriteJSON(out, rep); err != nil {
			return err
		}
		log.WithField("path", out).Info("audio report written")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(audioCmd)
}
