package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/structhealth/twinview/pkg/structure"
)

var (
	membersKind  string
	membersCount int
)

var membersCmd = &cobra.Command{
	Use:   "members [building.yaml]",
	Short: "List the selectable members of a generated structure",
	Long:  "Generate the structure and print the member registry as a table with id, kind, position and health.",
	Args:  cobra.MaximumNArgs(1),
	Run:   runMembers,
}

func init() {
	rootCmd.AddCommand(membersCmd)

	membersCmd.Flags().StringVarP(&membersKind, "kind", "k", "", "Only show members of this kind (column, beam, rafter, ...)")
	membersCmd.Flags().IntVarP(&membersCount, "count", "n", 0, "Maximum number of members to display (0 = all)")
}

func runMembers(cmd *cobra.Command, args []string) {
	st, source := loadStructure(args)

	members := st.Registry
	if membersKind != "" {
		filtered := make([]*structure.Member, 0, len(members))
		for _, m := range members {
			if strings.EqualFold(m.Kind.String(), membersKind) {
				filtered = append(filtered, m)
			}
		}
		members = filtered
	}

	title := fmt.Sprintf("Selectable Members (%d)", len(members))
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", len(title)))
	fmt.Printf("Config: %s\n\n", source)

	if len(members) == 0 {
		fmt.Println("No members match the criteria.")
		return
	}

	shown := members
	if membersCount > 0 && len(shown) > membersCount {
		shown = shown[:membersCount]
	}

	fmt.Printf("%-14s %-12s %-26s %-10s %s\n", "ID", "Kind", "Position", "Health", "Dimensions")
	fmt.Println(strings.Repeat("-", 86))
	for _, m := range shown {
		fmt.Printf("%-14s %-12s %-26s %-10s %s\n",
			m.ID,
			m.Kind,
			fmt.Sprintf("(%.2f, %.2f, %.2f)", m.Position.X, m.Position.Y, m.Position.Z),
			m.Health,
			m.DimensionsLabel)
	}
	if len(shown) < len(members) {
		fmt.Printf("\n... and %d more (raise -n to see them)\n", len(members)-len(shown))
	}
}
