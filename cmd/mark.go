package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/classmark/classmark/internal/camera"
	"github.com/classmark/classmark/internal/database"
	"github.com/classmark/classmark/internal/gallery"
	"github.com/classmark/classmark/internal/recognizer"
	"github.com/classmark/classmark/internal/session"
)

var markCmd = &cobra.Command{
	Use:   "mark",
	Short: "Run one attendance scanning session",
	Long: `Run one scanning session against the webcam. The session builds the
gallery from the photo directory, resolves the active class from the
timetable, and scans frames until a student is recognized or the session
is cancelled with Ctrl+C.`,
	RunE: runMark,
}

func init() {
	rootCmd.AddCommand(markCmd)

	markCmd.Flags().Int("device", -1, "Video device index (overrides CAMERA_DEVICE)")
	markCmd.Flags().Float64("tolerance", database.DefaultTolerance, "Maximum cosine distance for a match")
	markCmd.Flags().Bool("preview", false, "Save annotated preview frames")
	markCmd.Flags().Bool("verbose", false, "Print per-frame progress")
}

func runMark(cmd *cobra.Command, args []string) error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	device := d.cfg.Camera.Device
	if v := mustGetInt(cmd, "device"); v >= 0 {
		device = v
	}

	source, err := camera.OpenWebcam(device)
	if err != nil {
		return err
	}
	defer source.Close()

	controller := &session.Controller{
		GalleryDir: d.cfg.Gallery.Dir,
		Builder:    gallery.NewBuilder(recognizer.NewClient(d.cfg.Embedding.URL), d.rosterSrc, d.embeddings),
		Detector:   recognizer.NewClient(d.cfg.Embedding.URL),
		Schedule:   d.timetable,
		Attendance: d.attendance,
		Source:     source,
		Tolerance:  mustGetFloat64(cmd, "tolerance"),
	}
	if mustGetBool(cmd, "preview") {
		controller.Preview = camera.NewAnnotator(d.cfg.Camera.PreviewDir)
	}
	if mustGetBool(cmd, "verbose") {
		controller.Logf = func(format string, a ...any) {
			fmt.Printf(format+"\n", a...)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nCancelling session...")
		cancel()
	}()

	fmt.Println("Scanning... press Ctrl+C to cancel")
	result, err := controller.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(result.Message())
	return nil
}
