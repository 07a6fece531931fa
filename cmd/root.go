package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "classmark",
	Short: "Face recognition attendance for classrooms",
	Long: `Classmark marks classroom attendance with face recognition.
It builds a gallery from enrollment-keyed student photos, resolves the
active class from the timetable, and records one attendance row per
student, class and day.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
