package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/classmark/classmark/internal/gallery"
	"github.com/classmark/classmark/internal/recognizer"
)

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Manage the face gallery",
}

var gallerySyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Precompute embeddings for all gallery photos",
	Long: `Build the gallery once and store every photo embedding in the
database cache. Later sessions start without waiting for the embedding
sidecar to process unchanged photos.`,
	RunE: runGallerySync,
}

func init() {
	rootCmd.AddCommand(galleryCmd)
	galleryCmd.AddCommand(gallerySyncCmd)

	gallerySyncCmd.Flags().String("dir", "", "Gallery directory (overrides GALLERY_DIR)")
}

func countPhotos(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read gallery directory %s: %w", dir, err)
	}
	count := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			count++
		}
	}
	return count, nil
}

func runGallerySync(cmd *cobra.Command, args []string) error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	dir := d.cfg.Gallery.Dir
	if v := mustGetString(cmd, "dir"); v != "" {
		dir = v
	}

	total, err := countPhotos(dir)
	if err != nil {
		return err
	}
	fmt.Printf("Photos to process: %d\n\n", total)

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Embedding photos"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("photos"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	builder := gallery.NewBuilder(recognizer.NewClient(d.cfg.Embedding.URL), d.rosterSrc, d.embeddings)
	builder.Progress = func() {
		_ = bar.Add(1)
	}

	entries, err := builder.Build(context.Background(), dir)
	if err != nil {
		return err
	}

	fmt.Printf("\n\nGallery ready: %d identities enrolled, %d photos skipped\n", len(entries), total-len(entries))
	return nil
}
