package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/speaklens/speaklens/config"
)

const Version = "0.1.0"

var (
	cfgPath string
	outDir  string

	cfg *config.Root
	cal *config.Calibration
	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:     "speaklens",
	Short:   "Multimodal speaking-quality and body-language analyzer",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if outDir != "" {
			cfg.Paths.Outputs = outDir
		}
		cal, err = config.LoadCalibration(cfg.Paths.Calibration)
		if err != nil {
			return err
		}

		lvl, err := logrus.ParseLevel(cfg.Pipeline.LogLvl)
		if err != nil {
			lvl = logrus.InfoLevel
		}
		log.SetLevel(lvl)
		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to speaklens.yaml")
	rootCmd.PersistentFlags().StringVarP(&outDir, "output", "o", "", "output directory (overrides config)")
}
