package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/structhealth/twinview/pkg/structure"
	"github.com/structhealth/twinview/version"
)

var rootCmd = &cobra.Command{
	Use:   "twinview",
	Short: "3D digital-twin viewer for structural health monitoring",
	Long: `twinview generates a parametric building frame, renders it in an
interactive 3D viewport and overlays live panel, sensor and alert data
from a monitoring feed. When no window or GL context is available it
falls back to a plain-text structure and alert report.`,
	Version: version.GetFullVersion(),
	Args:    cobra.NoArgs,
	Run:     runViewer,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadStructure builds the structure from an optional positional YAML
// path, falling back to the built-in reference hall.
func loadStructure(args []string) (*structure.Structure, string) {
	params := structure.DefaultParams()
	source := "built-in defaults"
	if len(args) > 0 {
		p, err := structure.LoadParams(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading building config: %v\n", err)
			os.Exit(1)
		}
		params = p
		source = args[0]
	}

	st, err := structure.Generate(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating structure: %v\n", err)
		os.Exit(1)
	}
	return st, source
}
