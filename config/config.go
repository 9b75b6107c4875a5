package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"github.com/mattn/go-shellwords"
)

const (
	ModeWebhook = "webhook"
	ModePolling = "polling"
)

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type Config struct {
	BotToken      string  `yaml:"bot_token"`
	BotUsername   string  `yaml:"bot_username"`
	Mode          string  `yaml:"mode"`
	Port          string  `yaml:"port"`
	WebhookPath   string  `yaml:"webhook_path"`
	WebhookURL    string  `yaml:"webhook_url"`
	WebhookSecret string  `yaml:"webhook_secret"`
	AllowedChats  []int64 `yaml:"allowed_chats"`

	LiveBaseURL    string        `yaml:"live_base_url"`
	AdvanceBaseURL string        `yaml:"advance_base_url"`
	AssetSuffix    string        `yaml:"asset_suffix"`
	ItemIDPattern  string        `yaml:"item_id_pattern"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout"`
	MaxAssetBytes  int64         `yaml:"max_asset_bytes"`

	AstcencPath    string        `yaml:"astcenc_path"`
	AstcencFlags   string        `yaml:"astcenc_flags"`
	ConvertTimeout time.Duration `yaml:"convert_timeout"`
	TempDir        string        `yaml:"temp_dir"`
	MaxPhotoSide   int           `yaml:"max_photo_side"`

	Log LogConfig `yaml:"log"`
}

func Default() *Config {
	return &Config{
		Mode:           ModeWebhook,
		Port:           "8080",
		WebhookPath:    "/api/webhook",
		LiveBaseURL:    "https://dl.dir.freefiremobile.com/live/ABHotUpdates/IconCDN/android/",
		AdvanceBaseURL: "https://dl.dir.freefiremobile.com/advance/ABHotUpdates/IconCDN/android/",
		AssetSuffix:    "_rgb.astc",
		ItemIDPattern:  `^[0-9]{9}$`,
		FetchTimeout:   5 * time.Second,
		MaxAssetBytes:  16 << 20,
		AstcencPath:    "./astcenc",
		AstcencFlags:   "6x6 -thorough",
		ConvertTimeout: 5 * time.Second,
		TempDir:        os.TempDir(),
		MaxPhotoSide:   4096,
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// AstcencArgs splits the configured decoder flags with shell quoting rules.
func (c *Config) AstcencArgs() ([]string, error) {

	args, err := shellwords.Parse(c.AstcencFlags)

	if err != nil {
		return nil, fmt.Errorf("invalid ASTCENC_FLAGS %q: %w", c.AstcencFlags, err)
	}

	return args, nil
}

func (c *Config) Validate() error {

	if c.Mode != ModeWebhook && c.Mode != ModePolling {
		return fmt.Errorf("invalid mode %q, should be %s or %s", c.Mode, ModeWebhook, ModePolling)
	}

	if c.Port == "" {
		return fmt.Errorf("PORT is empty")
	}

	if len(c.WebhookPath) == 0 || c.WebhookPath[0] != '/' {
		return fmt.Errorf("WEBHOOK_PATH must start with /, got %q", c.WebhookPath)
	}

	for name, raw := range map[string]string{"LIVE_BASE_URL": c.LiveBaseURL, "ADVANCE_BASE_URL": c.AdvanceBaseURL} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s must be a valid http/https URL, got %q", name, raw)
		}
	}

	if _, err := regexp.Compile(c.ItemIDPattern); err != nil {
		return fmt.Errorf("invalid ITEM_ID_PATTERN: %w", err)
	}

	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout)
	}

	if c.ConvertTimeout <= 0 {
		return fmt.Errorf("CONVERT_TIMEOUT must be positive, got %s", c.ConvertTimeout)
	}

	if c.MaxAssetBytes <= 0 {
		return fmt.Errorf("MAX_ASSET_BYTES must be positive, got %d", c.MaxAssetBytes)
	}

	if c.AstcencPath == "" {
		return fmt.Errorf("ASTCENC_PATH is empty")
	}

	if _, err := c.AstcencArgs(); err != nil {
		return err
	}

	return nil
}

func (c *Config) RequireBotToken() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN not found")
	}
	return nil
}
