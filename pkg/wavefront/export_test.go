package wavefront

import (
	"strconv"
	"strings"
	"testing"

	"github.com/structhealth/twinview/pkg/structure"
)

func exportText(t *testing.T, includeDecor bool) (string, *structure.Structure) {
	t.Helper()
	s, err := structure.Generate(structure.DefaultParams())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var b strings.Builder
	e := &Exporter{IncludeDecor: includeDecor}
	if err := e.Export(&b, s); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	return b.String(), s
}

func TestExportMembersOnly(t *testing.T) {
	out, s := exportText(t, false)

	objects := strings.Count(out, "\no ")
	if objects != len(s.Registry) {
		t.Errorf("Object count failed: expected %d, got %d", len(s.Registry), objects)
	}

	// Each box exports 12 triangles, 3 fresh vertices each.
	faces := strings.Count(out, "\nf ")
	if faces != 12*len(s.Registry) {
		t.Errorf("Face count failed: expected %d, got %d", 12*len(s.Registry), faces)
	}
	verts := strings.Count(out, "\nv ")
	if verts != 3*faces {
		t.Errorf("Vertex count failed: expected %d, got %d", 3*faces, verts)
	}
}

func TestExportIncludesHeader(t *testing.T) {
	out, s := exportText(t, false)

	if !strings.HasPrefix(out, "# "+s.Params.Name+"\n") {
		t.Errorf("Header failed: got %q", strings.SplitN(out, "\n", 2)[0])
	}
	if !strings.Contains(out, "o COL-1\n") {
		t.Error("Member object names missing")
	}
}

func TestExportDecorToggle(t *testing.T) {
	bare, s := exportText(t, false)
	full, _ := exportText(t, true)

	if strings.Count(full, "\no ") <= strings.Count(bare, "\no ") {
		t.Error("IncludeDecor exported no extra objects")
	}
	if strings.Contains(bare, "Cladding_") {
		t.Error("Decor exported without IncludeDecor")
	}
	if !strings.Contains(full, "g Cladding_Walls\n") {
		t.Error("Decor group names missing from full export")
	}
	if len(s.Registry) == 0 {
		t.Fatal("Empty registry")
	}
}

func TestExportFaceIndicesSequential(t *testing.T) {
	out, _ := exportText(t, false)

	verts := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "v ") {
			verts++
			continue
		}
		if !strings.HasPrefix(line, "f ") {
			continue
		}
		fields := strings.Fields(line)[1:]
		if len(fields) != 3 {
			t.Fatalf("Face arity failed: %q", line)
		}
		for i, f := range fields {
			idx, err := strconv.Atoi(f)
			if err != nil {
				t.Fatalf("Face index parse failed: %q", line)
			}
			if idx != verts-2+i {
				t.Fatalf("Face index failed: %q after %d vertices", line, verts)
			}
		}
	}
}
