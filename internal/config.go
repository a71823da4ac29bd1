package internal

import (
	"errors"
	"os"
	"strconv"
)

type Config struct {
	// Session credentials for the private API. The library does not log in;
	// these come from an already-established session.
	SessionToken string
	CSRFToken    string
	UserID       string

	// DeviceSeed pins the handset fingerprint across runs.
	DeviceSeed int64

	// Optional Telegram notification target for upload results.
	TelegramToken string
	PostsChatID   int64

	Verbose bool
}

func LoadConfig() (Config, error) {
	cfg := Config{
		SessionToken:  os.Getenv("IG_SESSION_TOKEN"),
		CSRFToken:     os.Getenv("IG_CSRF_TOKEN"),
		UserID:        os.Getenv("IG_USER_ID"),
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		Verbose:       os.Getenv("VERBOSE") == "1",
	}

	if seed := os.Getenv("IG_DEVICE_SEED"); seed != "" {
		v, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return cfg, errors.New("IG_DEVICE_SEED must be an integer")
		}
		cfg.DeviceSeed = v
	} else {
		cfg.DeviceSeed = 42
	}

	chatIDStr := firstNonEmpty(os.Getenv("POSTS_CHATID"), os.Getenv("POSTS_CHAT_ID"))
	if chatIDStr != "" {
		v, err := strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return cfg, errors.New("POSTS_CHATID must be an integer")
		}
		cfg.PostsChatID = v
	}

	if cfg.SessionToken == "" {
		return cfg, errors.New("IG_SESSION_TOKEN is required")
	}
	if cfg.CSRFToken == "" {
		return cfg, errors.New("IG_CSRF_TOKEN is required")
	}
	if cfg.UserID == "" {
		return cfg, errors.New("IG_USER_ID is required")
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
