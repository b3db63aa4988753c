package cmd

import (
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/speaklens/speaklens/clients"
	"github.com/speaklens/speaklens/config"
	"github.com/speaklens/speaklens/media"
	"github.com/speaklens/speaklens/report"
	"github.com/speaklens/speaklens/video"
)

var videoCmd = &cobra.Command{
	Use:   "video <video file>",
	Short: "Analyze body language, emotion and cross-modal synchrony",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateVideo(); err != nil {
			return err
		}
		input := args[0]

		h := clients.NewHTTP(config.DurSeconds(cfg.Pipeline.TimeoutSec))
		locators := []video.FaceLocator{}
		if cfg.Services.FacePrimary.URL != "" {
			locators = append(locators, clients.NewFaceLocator(h, cfg.Services.FacePrimary.URL))
		}
		locators = append(locators, clients.NewFaceLocator(h, cfg.Services.FaceFallback.URL))

		var aus video.AUEstimator
		if cfg.Services.ActionUnits.URL != "" {
			aus = clients.NewAUEstimator(h, cfg.Services.ActionUnits.URL)
		} else {
			log.Info("AU model not configured, using landmark heuristic")
		}
		var emotion video.EmotionClassifier
		if cfg.Services.Emotion.URL != "" {
			emotion = clients.NewEmotionClassifier(h, cfg.Services.Emotion.URL)
		} else {
			log.Info("emotion model not configured, using landmark heuristic")
		}

		ex := video.NewExtractor(
			clients.NewPoseDetector(h, cfg.Services.Pose.URL),
			clients.NewHandDetector(h, cfg.Services.Hands.URL),
			locators,
			clients.NewFaceMesher(h, cfg.Services.FaceMesh.URL),
			aus, emotion, cal, log)
		pipe := video.NewPipeline(cfg, ex, log)

		src, err := media.OpenFrameSource(input, cfg.Video.FallbackFPS)
		if err != nil {
			return err
		}
		defer src.Close()

		// -1 makes the bar a spinner when ffprobe cannot count frames.
		total := media.ProbeFrameCount(input)
		if total == 0 {
			total = -1
		}
		bar := progressbar.Default(int64(total), "analyzing")

		tl, err := pipe.Run(cmd.Context(), src, func() { bar.Add(1) })
		if err != nil {
			return err
		}
		intervals := video.Aggregate(tl, cfg.Video.WindowSec)

		dir, err := report.NewSessionDir(cfg.Paths.Outputs)
		if err != nil {
			return err
		}
		jsonPath := filepath.Join(dir, "video_intervals.json")
		if err := report.WriteJSON(jsonPath, intervals); err != nil {
			return err
		}
		auCols := video.AUColumns(intervals)
		csvPath := filepath.Join(dir, "video_intervals.csv")
		if err := report.WriteCSV(csvPath, video.CSVHeader(auCols), video.CSVRows(intervals, auCols)); err != nil {
			return err
		}

		log.WithField("path", dir).WithField("intervals", len(intervals)).Info("video report written")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(videoCmd)
}
