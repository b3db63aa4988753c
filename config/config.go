package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Service struct {
	URL string `mapstructure:"url"`
}

// Services lists each external ML collaborator. An empty URL means the
// collaborator is unavailable; only the ones marked optional may be empty.
type Services struct {
	ASR          Service `mapstructure:"asr"`
	PitchTracker Service `mapstructure:"pitch_tracker"`
	Quality      Service `mapstructure:"quality"`
	Pose         Service `mapstructure:"pose"`
	Hands        Service `mapstructure:"hands"`
	FaceMesh     Service `mapstructure:"face_mesh"`
	FaceFallback Service `mapstructure:"face_fallback"`
	FacePrimary  Service `mapstructure:"face_primary"` // optional
	Emotion      Service `mapstructure:"emotion"`      // optional
	ActionUnits  Service `mapstructure:"action_units"` // optional
}

type Audio struct {
	SampleRate int     `mapstructure:"sample_rate"`
	WindowSec  float64 `mapstructure:"window_sec"`
}

type Video struct {
	WindowSec   float64 `mapstructure:"window_sec"`
	FallbackFPS float64 `mapstructure:"fallback_fps"`
}

type Root struct {
	Pipeline struct {
		Name       string `mapstructure:"name"`
		Version    string `mapstructure:"version"`
		LogLvl     string `mapstructure:"log_level"`
		TimeoutSec int    `mapstructure:"timeout_sec"`
	} `mapstructure:"pipeline"`
	Audio    Audio    `mapstructure:"audio"`
	Video    Video    `mapstructure:"video"`
	Services Services `mapstructure:"services"`
	Paths    struct {
		Outputs     string `mapstructure:"outputs"`
		Scratch     string `mapstructure:"scratch"`
		Calibration string `mapstructure:"calibration"`
	} `mapstructure:"paths"`
}

// Load reads speaklens.yaml (working dir or ./config) plus SPEAKLENS_*
// environment overrides. A missing file is fine; every key has a default.
func Load(path string) (*Root, error) {
	v := viper.New()
	v.SetConfigName("speaklens")
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("config")
	}
	v.SetEnvPrefix("speaklens")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("pipeline.name", "speaklens")
	v.SetDefault("pipeline.version", "0.1.0")
	v.SetDefault("pipeline.log_level", "info")
	v.SetDefault("pipeline.timeout_sec", 60)
	v.SetDefault("audio.sample_rate", 16000)
	v.SetDefault("audio.window_sec", 5.0)
	v.SetDefault("video.window_sec", 5.0)
	v.SetDefault("video.fallback_fps", 30.0)
	v.SetDefault("paths.outputs", "outputs")
	v.SetDefault("paths.scratch", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateAudio reports the first required audio collaborator without a URL.
func (r *Root) ValidateAudio() error {
	switch {
	case r.Services.ASR.URL == "":
		return errors.New("services.asr.url is required")
	case r.Services.PitchTracker.URL == "":
		return errors.New("services.pitch_tracker.url is required")
	case r.Services.Quality.URL == "":
		return errors.New("services.quality.url is required")
	}
	return nil
}

// ValidateVideo reports the first required video collaborator without a URL.
// The primary face locator, AU estimator and emotion classifier are optional.
func (r *Root) ValidateVideo() error {
	switch {
	case r.Services.Pose.URL == "":
		return errors.New("services.pose.url is required")
	case r.Services.Hands.URL == "":
		return errors.New("services.hands.url is required")
	case r.Services.FaceMesh.URL == "":
		return errors.New("services.face_mesh.url is required")
	case r.Services.FaceFallback.URL == "":
		return errors.New("services.face_fallback.url is required")
	}
	return nil
}

func DurSeconds(n int) time.Duration { return time.Duration(n) * time.Second }
