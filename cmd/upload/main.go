package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"insta-uploader/internal"
	"insta-uploader/internal/device"
	"insta-uploader/internal/media"
	"insta-uploader/internal/upload"
)

func main() {
	// Load .env file if it exists (try multiple paths)
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, path := range envPaths {
		_ = godotenv.Load(path)
	}

	photoPath := flag.String("photo", "", "photo file to upload")
	videoPath := flag.String("video", "", "video file to upload")
	thumbPath := flag.String("thumb", "", "thumbnail for -video")
	albumPhotos := flag.String("album-photos", "", "comma-separated photo files for an album")
	albumVideos := flag.String("album-videos", "", "comma-separated video:thumb pairs for an album")
	caption := flag.String("caption", "", "caption for the post")
	width := flag.Int("width", 0, "declared media width")
	height := flag.Int("height", 0, "declared media height")
	flag.Parse()

	cfg, err := internal.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	dev := device.New(cfg.DeviceSeed)
	client := upload.NewClient(dev, cfg.SessionToken, cfg.CSRFToken, cfg.UserID, &upload.Options{
		Logger: &log,
	})

	ctx := context.Background()

	var result *media.Media
	switch {
	case *photoPath != "":
		result, err = client.UploadPhoto(ctx, &media.Asset{Path: *photoPath, Width: *width, Height: *height}, *caption)
	case *videoPath != "":
		if *thumbPath == "" {
			log.Fatal().Msg("-video requires -thumb")
		}
		asset := &media.Asset{
			Path:      *videoPath,
			Width:     *width,
			Height:    *height,
			Thumbnail: &media.Asset{Path: *thumbPath},
		}
		result, err = client.UploadVideo(ctx, asset, *caption)
	case *albumPhotos != "" || *albumVideos != "":
		photos, videos, perr := parseAlbumArgs(*albumPhotos, *albumVideos)
		if perr != nil {
			log.Fatal().Err(perr).Msg("bad album arguments")
		}
		result, err = client.UploadAlbum(ctx, photos, videos, *caption)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Error().Err(err).Msg("upload failed")
		notify(cfg, fmt.Sprintf("upload failed: %v", err))
		os.Exit(1)
	}

	log.Info().Str("media_id", result.ID).Str("code", result.Code).Int("children", len(result.Children)).Msg("upload complete")
	fmt.Println(result.ID)
	notify(cfg, fmt.Sprintf("uploaded media %s (%s)", result.ID, result.Code))
}

func parseAlbumArgs(photoList, videoList string) ([]*media.Asset, []*media.Asset, error) {
	var photos, videos []*media.Asset
	if photoList != "" {
		for _, p := range strings.Split(photoList, ",") {
			photos = append(photos, &media.Asset{Path: strings.TrimSpace(p)})
		}
	}
	if videoList != "" {
		for _, pair := range strings.Split(videoList, ",") {
			parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
			if len(parts) != 2 {
				return nil, nil, fmt.Errorf("album video %q must be video:thumb", pair)
			}
			videos = append(videos, &media.Asset{
				Path:      parts[0],
				Thumbnail: &media.Asset{Path: parts[1]},
			})
		}
	}
	return photos, videos, nil
}

// notify reports the outcome to the configured Telegram chat, if any.
func notify(cfg internal.Config, text string) {
	if cfg.TelegramToken == "" || cfg.PostsChatID == 0 {
		return
	}
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return
	}
	_, _ = api.Send(tgbotapi.NewMessage(cfg.PostsChatID, text))
}
