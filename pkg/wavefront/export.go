// Package wavefront exports a generated structure as Wavefront OBJ
// geometry so external modeling and analysis tools can consume it.
package wavefront

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/structhealth/twinview/pkg/geometry"
	"github.com/structhealth/twinview/pkg/structure"
)

// Exporter writes OBJ geometry for a structure. The zero value exports
// structural members only.
type Exporter struct {
	// IncludeDecor also exports cladding, trim and gutters
	IncludeDecor bool
}

// Export writes the structure as triangulated OBJ objects, one object
// per placement. Cylindrical placements export as their bounding box.
func (e *Exporter) Export(w io.Writer, s *structure.Structure) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s\n", s.Params.Name)
	fmt.Fprintf(bw, "# %.1f x %.1f m, eave %.1f m\n",
		s.Params.Width, s.Params.Length, s.Params.EaveHeight)
	fmt.Fprintf(bw, "# structural members: %d\n", len(s.Registry))

	vertices := 0
	decorSeq := 0
	for _, p := range s.Placements {
		if !p.Selectable() && !e.IncludeDecor {
			continue
		}

		name := p.MemberID
		if name == "" {
			decorSeq++
			name = fmt.Sprintf("%s_%d", objName(p.Group), decorSeq)
		}
		fmt.Fprintf(bw, "o %s\n", name)
		fmt.Fprintf(bw, "g %s\n", objName(p.Group))

		for _, tri := range p.Box.Triangles() {
			for _, v := range []geometry.Vector3{tri.V1, tri.V2, tri.V3} {
				fmt.Fprintf(bw, "v %.6f %.6f %.6f\n", v.X, v.Y, v.Z)
			}
			vertices += 3
			fmt.Fprintf(bw, "f %d %d %d\n", vertices-2, vertices-1, vertices)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write obj: %w", err)
	}
	return nil
}

// objName turns a scene-graph path into an OBJ-safe identifier
func objName(group string) string {
	if group == "" {
		return "ungrouped"
	}
	return strings.ReplaceAll(group, "/", "_")
}
