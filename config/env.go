package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"scristobal/astcbot/logging"

	"github.com/joho/godotenv"
)

// FromEnv overrides c with whatever is set in the environment or in a local .env file.
func (c *Config) FromEnv() error {

	err := godotenv.Load()

	if err != nil {
		logging.Debug("Failed to load .env file, fallback on env vars")
	}

	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	str("BOT_TOKEN", &c.BotToken)
	str("BOT_USERNAME", &c.BotUsername)
	str("BOT_MODE", &c.Mode)
	str("PORT", &c.Port)
	str("WEBHOOK_PATH", &c.WebhookPath)
	str("WEBHOOK_URL", &c.WebhookURL)
	str("WEBHOOK_SECRET", &c.WebhookSecret)
	str("LIVE_BASE_URL", &c.LiveBaseURL)
	str("ADVANCE_BASE_URL", &c.AdvanceBaseURL)
	str("ASSET_SUFFIX", &c.AssetSuffix)
	str("ITEM_ID_PATTERN", &c.ItemIDPattern)
	str("ASTCENC_PATH", &c.AstcencPath)
	str("ASTCENC_FLAGS", &c.AstcencFlags)
	str("TEMP_DIR", &c.TempDir)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FILE", &c.Log.File)

	if v, ok := os.LookupEnv("ALLOWED_CHAT_IDS"); ok {
		ids, err := parseIDs(v)
		if err != nil {
			return fmt.Errorf("invalid ALLOWED_CHAT_IDS: %w", err)
		}
		c.AllowedChats = ids
	}

	for key, dst := range map[string]*time.Duration{
		"FETCH_TIMEOUT":   &c.FetchTimeout,
		"CONVERT_TIMEOUT": &c.ConvertTimeout,
	} {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = d
	}

	for key, dst := range map[string]*int{
		"MAX_PHOTO_SIDE":   &c.MaxPhotoSide,
		"LOG_MAX_SIZE_MB":  &c.Log.MaxSizeMB,
		"LOG_MAX_BACKUPS":  &c.Log.MaxBackups,
		"LOG_MAX_AGE_DAYS": &c.Log.MaxAgeDays,
	} {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
	}

	if v, ok := os.LookupEnv("MAX_ASSET_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_ASSET_BYTES: %w", err)
		}
		c.MaxAssetBytes = n
	}

	if v, ok := os.LookupEnv("LOG_COMPRESS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid LOG_COMPRESS: %w", err)
		}
		c.Log.Compress = b
	}

	return nil
}

func parseIDs(s string) ([]int64, error) {

	var ids []int64

	for _, part := range strings.Split(s, ",") {

		part = strings.TrimSpace(part)

		if part == "" {
			continue
		}

		id, err := strconv.ParseInt(part, 10, 64)

		if err != nil {
			return nil, fmt.Errorf("%q is not a chat id", part)
		}

		ids = append(ids, id)
	}

	return ids, nil
}
