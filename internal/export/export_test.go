package export

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/seesaw/internal/seesaw"
)

func testSnapshot(t *testing.T) seesaw.Snapshot {
	t.Helper()
	st, err := seesaw.New(seesaw.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	st.Deserialize([]seesaw.RestingItem{{X: 80, Weight: 4, Color: 1}, {X: -40, Weight: 9, Color: 2}})
	st.Spawn(120, 2)
	return st.Snapshot()
}

func wellFormed(t *testing.T, doc string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(doc))
	for {
		if _, err := dec.Token(); err != nil {
			if err == io.EOF {
				return
			}
			t.Fatalf("malformed svg: %v", err)
		}
	}
}

func TestSnapshotToSVG(t *testing.T) {
	svg := SnapshotToSVG(testSnapshot(t), 600, 400)
	wellFormed(t, svg)

	if n := strings.Count(svg, "<circle"); n != 3 {
		t.Errorf("expected 3 bodies, got %d", n)
	}
	for _, want := range []string{"#f97316", "#10b981", "Left: 9.0 kg", "rotate(-4.00 300.0 300.0)", `fill-opacity="0.85"`} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestTiltToSVG(t *testing.T) {
	if TiltToSVG([]float64{1}, 100, 50, 30, "#fff") != "" {
		t.Error("expected empty svg for a single point")
	}

	svg := TiltToSVG([]float64{0, 30, -30}, 100, 60, 30, "#10b981")
	wellFormed(t, svg)
	if !strings.Contains(svg, "M0.0,30.0 L50.0,0.0 L100.0,60.0") {
		t.Errorf("unexpected path in %s", svg)
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "out.json")
	if err := ExportJSON(path, map[string]int{"runs": 3}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]int
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got["runs"] != 3 {
		t.Errorf("expected runs 3, got %v", got)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, []int{1}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "[\n  1\n]\n" {
		t.Errorf("unexpected encoding %q", buf.String())
	}
}
