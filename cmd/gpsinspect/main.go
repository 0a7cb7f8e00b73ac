package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/electronjoe/geotag/internal/exifmeta"
	"github.com/electronjoe/geotag/internal/logging"
	"github.com/electronjoe/geotag/internal/photo"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gpsinspect <images_path> <image_format>",
		Short: "Print the GPS position stored in photos",
		Long: `Gpsinspect reads the EXIF GPS block of each photo and prints a JSON object
mapping file names to their latitude, longitude and altitude. Photos without
GPS data are logged and left out. Use it to check the result of geotag.`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         runInspect,
	}
	cmd.Flags().String("exiftool", exifmeta.DefaultExiftool, "exiftool binary used for WEBP")
	cmd.Flags().String("log-level", "info", "log level: debug, info, warn, error")
	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	format, err := photo.ParseFormat(args[1])
	if err != nil {
		return err
	}
	level, _ := cmd.Flags().GetString("log-level")
	exiftool, _ := cmd.Flags().GetString("exiftool")
	logger := logging.NewWithWriter(logging.Config{Level: level}, cmd.ErrOrStderr())

	paths, err := photo.Candidates(args[0], format, logger)
	if err != nil {
		return err
	}

	positions := inspect(cmd.Context(), paths, format, exiftool, logger)

	data, err := json.MarshalIndent(positions, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal positions: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// inspect maps each file name to its GPS position, skipping images without one.
func inspect(ctx context.Context, paths []string, format photo.Format, exiftool string, logger zerolog.Logger) map[string]exifmeta.Position {
	positions := make(map[string]exifmeta.Position)
	for _, path := range paths {
		pos, err := exifmeta.ReadPosition(ctx, path, format, exiftool)
		if err != nil {
			logger.Warn().Str("path", path).Err(err).Msg("no position")
			continue
		}
		positions[filepath.Base(path)] = pos
	}
	return positions
}
