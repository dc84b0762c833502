package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/structhealth/twinview/pkg/structure"
)

var validateCmd = &cobra.Command{
	Use:   "validate <building.yaml>",
	Short: "Check a building configuration without opening a window",
	Long:  "Load and validate the YAML parameters, then run a full generation pass to prove the configuration produces a structure.",
	Args:  cobra.ExactArgs(1),
	Run:   runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) {
	path := args[0]

	params, err := structure.LoadParams(path)
	if err != nil {
		reportConfigError(path, err)
	}

	st, err := structure.Generate(params)
	if err != nil {
		reportConfigError(path, err)
	}

	stats := st.Stats()
	fmt.Println("Configuration OK")
	fmt.Println("================")
	fmt.Printf("File: %s\n", path)
	fmt.Printf("Name: %s\n", params.Name)
	fmt.Printf("Footprint: %.1f x %.1f m, eave %.1f m, ridge rise %.1f m\n",
		params.Width, params.Length, params.EaveHeight, params.RidgeRise)
	fmt.Printf("Bays: %d x %d, openings: %d\n", stats.BaysX, stats.BaysZ, len(params.Openings))
	if params.Wing.Enabled {
		fmt.Printf("Wing: radius %.1f m over %.0f degrees in %d segments\n",
			params.Wing.Radius, params.Wing.AngleSpan, params.Wing.Segments)
	}
	fmt.Printf("Generates %d structural members\n", stats.MemberCount)
}

// reportConfigError prints validation failures with the offending field
// when the error carries one, then exits.
func reportConfigError(path string, err error) {
	var cfgErr *structure.ConfigurationError
	if errors.As(err, &cfgErr) {
		fmt.Fprintln(os.Stderr, "Configuration invalid")
		fmt.Fprintln(os.Stderr, "=====================")
		fmt.Fprintf(os.Stderr, "File: %s\n", path)
		fmt.Fprintf(os.Stderr, "Field: %s\n", cfgErr.Field)
		fmt.Fprintf(os.Stderr, "Reason: %s\n", cfgErr.Reason)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Error validating %s: %v\n", path, err)
	os.Exit(1)
}
