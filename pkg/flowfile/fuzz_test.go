package flowfile

import "testing"

// FuzzParse feeds arbitrary documents to every decoder.
// Run with: go test -fuzz=FuzzParse -fuzztime=30s ./pkg/flowfile/
func FuzzParse(f *testing.F) {
	f.Add([]byte(`{"blocks": [{"id": "a", "width": 1, "height": 1}]}`), "json")
	f.Add([]byte(`{"blocks": [{"id": "a"}], "pins": [{"id": "p", "block": "a", "kind": "output"}]}`), "json")
	f.Add([]byte("name = \"x\"\n[[blocks]]\nid = \"a\"\n"), "toml")
	f.Add([]byte("blocks:\n  - {id: a}\npins:\n  - {id: i, block: a, kind: input}\n"), "yaml")
	f.Add([]byte("connections: [{id: c, from: x, to: y}]"), "yaml")

	f.Fuzz(func(t *testing.T, data []byte, format string) {
		d, err := Parse(data, Format(format))
		if err != nil {
			return
		}

		// Whatever decodes must survive a JSON round trip unchanged in size.
		out, err := Marshal(d, FormatJSON)
		if err != nil {
			return // NaN and Inf have no JSON form
		}
		back, err := Parse(out, FormatJSON)
		if err != nil {
			t.Fatalf("re-parse of marshalled diagram: %v\n%s", err, out)
		}
		if len(back.Blocks()) != len(d.Blocks()) ||
			len(back.Pins()) != len(d.Pins()) ||
			len(back.Connections()) != len(d.Connections()) {
			t.Errorf("round trip changed the diagram:\n%s", out)
		}
	})
}
