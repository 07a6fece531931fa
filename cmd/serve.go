package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/classmark/classmark/internal/camera"
	"github.com/classmark/classmark/internal/gallery"
	"github.com/classmark/classmark/internal/recognizer"
	"github.com/classmark/classmark/internal/session"
	"github.com/classmark/classmark/internal/web"
	"github.com/classmark/classmark/internal/web/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the Classmark web server. The API manages students and the
timetable, lists attendance, and can trigger scanning sessions when a
camera is attached.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().Bool("camera", false, "Enable the session endpoint backed by the local webcam")
}

func runServe(cmd *cobra.Command, args []string) error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	api := &handlers.API{
		Roster:     d.roster,
		Timetable:  d.timetable,
		Attendance: d.attendance,
	}

	if mustGetBool(cmd, "camera") {
		api.RunSession = func(ctx context.Context) (*session.Result, error) {
			source, err := camera.OpenWebcam(d.cfg.Camera.Device)
			if err != nil {
				return nil, err
			}
			defer source.Close()

			controller := &session.Controller{
				GalleryDir: d.cfg.Gallery.Dir,
				Builder:    gallery.NewBuilder(recognizer.NewClient(d.cfg.Embedding.URL), d.rosterSrc, d.embeddings),
				Detector:   recognizer.NewClient(d.cfg.Embedding.URL),
				Schedule:   d.timetable,
				Attendance: d.attendance,
				Source:     source,
			}
			return controller.Run(ctx)
		}
	}

	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")
	server := web.NewServer(api, host, port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Classmark API on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
