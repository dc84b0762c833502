package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/structhealth/twinview/pkg/structure"
)

var infoCmd = &cobra.Command{
	Use:   "info [building.yaml]",
	Short: "Display summary information about a generated structure",
	Long:  "Generate the structure and show bay counts, bounding box, member totals per kind and the health breakdown.",
	Args:  cobra.MaximumNArgs(1),
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	st, source := loadStructure(args)
	stats := st.Stats()

	fmt.Println("Building Structure Information")
	fmt.Println("==============================")
	fmt.Printf("Name: %s\n", st.Params.Name)
	fmt.Printf("Config: %s\n\n", source)

	fmt.Println("Frame:")
	fmt.Printf("  Bays: %d x %d (width x length)\n", stats.BaysX, stats.BaysZ)
	fmt.Printf("  Truss lines: %d\n", stats.TrussLines)
	fmt.Printf("  Structural members: %d\n", stats.MemberCount)
	fmt.Printf("  Decorative placements: %d\n", stats.DecorCount)
	fmt.Printf("  Sensor mounts: %d\n\n", stats.SensorMounts)

	fmt.Println("Bounding Box:")
	fmt.Printf("  Min: (%.2f, %.2f, %.2f)\n", stats.Bounds.Min.X, stats.Bounds.Min.Y, stats.Bounds.Min.Z)
	fmt.Printf("  Max: (%.2f, %.2f, %.2f)\n", stats.Bounds.Max.X, stats.Bounds.Max.Y, stats.Bounds.Max.Z)
	fmt.Printf("  Dimensions: %.2f x %.2f x %.2f m\n", stats.Dimensions.X, stats.Dimensions.Y, stats.Dimensions.Z)
	fmt.Printf("  Diagonal: %.2f m\n\n", stats.Bounds.Diagonal())

	fmt.Println("Members by Kind:")
	for _, kind := range structure.ReportKinds {
		if n := stats.KindCounts[kind]; n > 0 {
			fmt.Printf("  %-12s %d\n", kind.String()+":", n)
		}
	}
	fmt.Println()

	fmt.Println("Health:")
	fmt.Printf("  Good: %d\n", stats.HealthCounts[structure.HealthGood])
	fmt.Printf("  Warning: %d\n", stats.HealthCounts[structure.HealthWarning])
	fmt.Printf("  Critical: %d\n", stats.HealthCounts[structure.HealthCritical])
}
