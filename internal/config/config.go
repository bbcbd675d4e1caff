package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all bot configuration. Secrets are deliberately not part of
// the file; they come from the environment (see cmd/corobot).
type Config struct {
	// Targets are the monitored account handles, without the leading @,
	// checked in order every run.
	Targets []string `toml:"targets"`

	// FetchCount is how many recent posts to inspect per account.
	FetchCount int `toml:"fetch_count"`

	// StateFile is the JSON file holding already-reposted post ids.
	StateFile string `toml:"state_file"`

	// ArchiveFile is the sqlite database recording inspected posts and
	// repost outcomes. Optional observability; the bot runs without it.
	ArchiveFile string `toml:"archive_file"`

	Rules RulesConfig `toml:"rules"`
	Watch WatchConfig `toml:"watch"`
}

// RulesConfig holds the stream-announcement matching rules.
type RulesConfig struct {
	// Keywords match case-insensitively as substrings of the post text.
	// Entries may be plain phrases or literal stream-URL fragments.
	Keywords []string `toml:"keywords"`

	// Hashtags match case-sensitively against the post's hashtag entities,
	// without the leading #.
	Hashtags []string `toml:"hashtags"`

	// StreamDomains match as substrings of any expanded URL in the post.
	StreamDomains []string `toml:"stream_domains"`
}

// WatchConfig controls the optional in-process watch mode.
type WatchConfig struct {
	IntervalMinutes int `toml:"interval_minutes"`
}

// Default returns the production configuration for the CORO PROJECT
// talents. Operators override it with a config file written by
// `corobot init`.
func Default() *Config {
	return &Config{
		Targets: []string{
			"Aomishibi",   // 青海しび
			"kurin_musee", // 來凛みゅぜ
		},
		FetchCount:  10,
		StateFile:   "retweeted_ids.json",
		ArchiveFile: "corobot.db",
		Rules: RulesConfig{
			Keywords: []string{
				"配信はじまるよ",
				"http://twitch.tv/aomishibi",
				"twitch.tv/aomishibi",
				"twitch.tv/kurin_musee",
				"次の配信",
			},
			Hashtags: []string{
				"CORO配信",
				"青海しび配信",
				"來凛みゅぜ配信",
			},
			StreamDomains: []string{
				"youtube.com",
				"youtu.be",
				"twitch.tv",
				"nicovideo.jp",
			},
		},
		Watch: WatchConfig{
			IntervalMinutes: 10,
		},
	}
}

// Load reads config from the given path. Missing operational scalars fall
// back to their defaults so a partial file stays usable; empty rule lists
// are respected as written.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	def := Default()
	if cfg.FetchCount <= 0 {
		cfg.FetchCount = def.FetchCount
	}
	if cfg.StateFile == "" {
		cfg.StateFile = def.StateFile
	}
	if cfg.ArchiveFile == "" {
		cfg.ArchiveFile = def.ArchiveFile
	}
	if cfg.Watch.IntervalMinutes <= 0 {
		cfg.Watch.IntervalMinutes = def.Watch.IntervalMinutes
	}

	return &cfg, nil
}

// Save writes config to the given path.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}
