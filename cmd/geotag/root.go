package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/electronjoe/geotag/internal/exifmeta"
	"github.com/electronjoe/geotag/internal/geotag"
	"github.com/electronjoe/geotag/internal/logging"
	"github.com/electronjoe/geotag/internal/photo"
	"github.com/electronjoe/geotag/internal/track"
)

var errNothingTagged = errors.New("no image was geotagged")

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "geotag <track_log_path> <images_path> <image_format>",
		Short: "Write GPS positions from a GPX track log into photos",
		Long: `Geotag matches each photo's DateTimeOriginal to the nearest point in time
of a GPX track log and writes that point's position into the photo's EXIF
GPS block, replacing any GPS data already there.

The capture time is read as UTC. Use one of --hours, --minutes or --seconds
to shift it when the camera clock was set to local time or has drifted.

image_format is one of JPG|JPEG|WEBP|TIF|TIFF. When images_path is a
directory, only files with that format's extension are processed.

Examples:
  geotag hike.gpx ~/Pictures/hike jpg --hours -2
  geotag hike.gpx scan.tif tiff --seconds 37`,
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE:         runGeotag,
	}

	flags := cmd.Flags()
	flags.Int("hours", 0, "camera clock offset in hours")
	flags.Int("minutes", 0, "camera clock offset in minutes")
	flags.Int("seconds", 0, "camera clock offset in seconds")
	cmd.MarkFlagsMutuallyExclusive("hours", "minutes", "seconds")

	flags.String("config", "", "YAML config file (default ~/.geotag/config.yaml)")
	flags.IntP("workers", "w", 0, "images processed in parallel (default number of CPUs)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "console", "log format: console or json")
	flags.String("exiftool", "exiftool", "exiftool binary used for WEBP and TIFF")
	flags.Bool("progress", false, "show a progress bar")
	return cmd
}

func runGeotag(cmd *cobra.Command, args []string) error {
	format, err := photo.ParseFormat(args[2])
	if err != nil {
		return err
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger := logging.NewWithWriter(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}, cmd.ErrOrStderr())

	offset, err := offsetFromFlags(cmd)
	if err != nil {
		return err
	}

	store, err := exifmeta.ForFormat(format, cfg.Exiftool)
	if err != nil {
		return err
	}

	series, err := track.LoadGPX(expandHome(args[0]), logger)
	if err != nil {
		return err
	}

	paths, err := photo.Candidates(expandHome(args[1]), format, logger)
	if err != nil {
		return err
	}
	logger.Info().
		Int("images", len(paths)).
		Stringer("format", format).
		Dur("offset", offset).
		Int("workers", cfg.Workers).
		Msg("starting")

	tagger := &geotag.Tagger{
		Series:  series,
		Matcher: track.NewMatcher(),
		Store:   store,
		Format:  format,
		Offset:  offset,
		Workers: cfg.Workers,
		Sniff:   true,
		Logger:  logger,
	}
	if cfg.Progress {
		tagger.Progress = cmd.ErrOrStderr()
	}

	report, err := tagger.Run(cmd.Context(), paths)
	if errors.Is(err, context.Canceled) && report.Tagged > 0 {
		logger.Warn().Int("tagged", report.Tagged).Msg("interrupted, keeping images tagged so far")
	}
	return runError(report, err)
}

// runError decides the command's outcome: it fails only when no image was
// tagged, so an interrupted run that tagged some images still succeeds.
func runError(report geotag.Report, err error) error {
	if report.Tagged > 0 {
		return nil
	}
	if err != nil {
		return err
	}
	return errNothingTagged
}

// offsetFromFlags returns the clock offset set by whichever of --hours,
// --minutes or --seconds was given.
func offsetFromFlags(cmd *cobra.Command) (time.Duration, error) {
	units := []struct {
		flag string
		unit time.Duration
	}{
		{"hours", time.Hour},
		{"minutes", time.Minute},
		{"seconds", time.Second},
	}
	for _, u := range units {
		if !cmd.Flags().Changed(u.flag) {
			continue
		}
		n, err := cmd.Flags().GetInt(u.flag)
		if err != nil {
			return 0, fmt.Errorf("--%s: %w", u.flag, err)
		}
		return time.Duration(n) * u.unit, nil
	}
	return 0, nil
}
