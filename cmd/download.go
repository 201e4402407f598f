package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/VladimirStojanovski/MealStack/internal/download"
	"github.com/VladimirStojanovski/MealStack/internal/formatter"
	"github.com/VladimirStojanovski/MealStack/internal/shared"
)

// archiveName matches the filename the backend serves for a finished batch.
const archiveName = "tiktok_videos.zip"

// DownloadRun submits a URL batch and streams progress to the terminal until
// the job completes, then saves the zip archive.
func (r *Runner) DownloadRun(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard("/download"); err != nil {
		return err
	}
	if r.coordinator == nil {
		return fmt.Errorf("%w: download coordinator not initialized", shared.ErrServiceUnavailable)
	}

	urls := cmd.StringSlice("url")

	r.writePlain("Starting bulk download (%d URL(s))...\n\n", len(urls))

	progressCh := make(chan download.Update, 50)
	go func() {
		for update := range progressCh {
			if update.Progress.Total > 0 {
				r.writePlain("📥 %d/%d %s\n", update.Progress.Current, update.Progress.Total, update.Progress.Message)
			} else if update.Progress.Message != "" {
				r.writePlain("📥 %s\n", update.Progress.Message)
			}
		}
	}()

	_, err := r.coordinator.Submit(ctx, urls, progressCh)
	if err != nil {
		close(progressCh)
		return r.fail("download failed", err)
	}

	job, err := r.coordinator.Wait(ctx)
	if err != nil {
		// Cancel makes the job terminal before returning, so no progress
		// send can race the close below.
		r.coordinator.Cancel()
		close(progressCh)
		return err
	}
	close(progressCh)

	switch job.Status {
	case download.StatusCompleted:
	case download.StatusCancelled:
		return r.writePlain("\nDownload cancelled\n")
	default:
		return r.fail("download failed", job.Err)
	}

	path, err := r.saveArchive(cmd.String("output"), job.Archive)
	if err != nil {
		return err
	}

	r.writePlainHeader("Download Complete!")
	r.writePlain("Videos: %d\n", len(job.URLs))
	r.writePlain("Saved to: %s\n", path)
	return nil
}

// DownloadHistory lists locally recorded download jobs.
func (r *Runner) DownloadHistory(ctx context.Context, cmd *cli.Command) error {
	if r.history == nil {
		return fmt.Errorf("%w: local database unavailable, run 'mealstack setup database'", shared.ErrServiceUnavailable)
	}

	records, err := r.history.List(cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to read download history: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, true)
	}

	return r.writePlain("%s", string(formatter.HistoryToText(records)))
}

// saveArchive writes the finished archive into the output directory and
// returns the full path.
func (r *Runner) saveArchive(outputDir string, archive []byte) (string, error) {
	if outputDir == "" {
		outputDir = r.config.Download.OutputDir
	}
	if outputDir == "" {
		outputDir = "."
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(outputDir, archiveName)
	if err := os.WriteFile(path, archive, 0644); err != nil {
		return "", fmt.Errorf("failed to write archive: %w", err)
	}

	r.logger.Info("archive saved", "path", path, "bytes", len(archive))
	return path, nil
}
