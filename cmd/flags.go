package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// The mustGet helpers read flags registered in the commands' init funcs.
// Asking for a flag that was never registered is a programming error, so
// they panic rather than thread an error through every RunE.

func mustGetBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	mustFlag(name, err)
	return v
}

func mustGetInt(cmd *cobra.Command, name string) int {
	v, err := cmd.Flags().GetInt(name)
	mustFlag(name, err)
	return v
}

func mustGetString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	mustFlag(name, err)
	return v
}

func mustGetFloat64(cmd *cobra.Command, name string) float64 {
	v, err := cmd.Flags().GetFloat64(name)
	mustFlag(name, err)
	return v
}

func mustFlag(name string, err error) {
	if err != nil {
		panic(fmt.Sprintf("--%s: %v", name, err))
	}
}
