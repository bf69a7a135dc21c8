package tui

import "time"

const (
	defaultTheme              = "nord"
	defaultProgressUpdateFreq = 250 * time.Millisecond
)

type Config struct {
	ReplaceHomeWithTilde bool          `json:"replace_home_with_tilde"`
	ProgressUpdateFreq   time.Duration `json:"progress_update_freq"`
	Theme                string        `json:"theme"`
}

func DefaultConfig() Config {
	return Config{
		ReplaceHomeWithTilde: true,
		ProgressUpdateFreq:   defaultProgressUpdateFreq,
		Theme:                defaultTheme,
	}
}
