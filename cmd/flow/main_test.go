package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleTOML = `
name = "demo"

[[blocks]]
id = "a"
x = 0.0
y = 0.0
width = 100.0
height = 40.0

[[blocks]]
id = "b"
x = 200.0
y = 120.0
width = 100.0
height = 40.0

[[pins]]
id = "a.out"
block = "a"
kind = "output"
offset_x = 100.0
offset_y = 20.0

[[pins]]
id = "b.in"
block = "b"
kind = "input"
offset_x = 0.0
offset_y = 20.0

[[connections]]
id = "ab"
from = "a.out"
to = "b.in"
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.toml")
	if err := os.WriteFile(path, []byte(sampleTOML), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestInfo(t *testing.T) {
	out, err := run(t, "info", writeSample(t))
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{
		"Name:        demo",
		"Blocks:      2",
		"Pins:        2 (1 out, 1 in, 0 free)",
		"Connections: 1",
		"Lowest Y:    120",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}
}

func TestValidate(t *testing.T) {
	good := writeSample(t)
	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"blocks": [{"id": "a"}, {"id": "a"}]}`), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "validate", good)
	if err != nil || !strings.Contains(out, "valid, 2 blocks, 1 connections") {
		t.Errorf("validate good: %v\n%s", err, out)
	}

	out, err = run(t, "validate", good, bad)
	if err == nil {
		t.Errorf("validate bad: expected error")
	}
	if !strings.Contains(out, "bad.json") {
		t.Errorf("validate bad: output should name the file:\n%s", out)
	}
}

func TestConvert(t *testing.T) {
	in := writeSample(t)
	out := filepath.Join(t.TempDir(), "demo.yaml")

	if _, err := run(t, "convert", in, "-o", out); err != nil {
		t.Fatalf("convert: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "from: a.out") {
		t.Errorf("yaml output:\n%s", data)
	}
}

func TestDefaultConvertTarget(t *testing.T) {
	tests := map[string]string{
		"x.json":     "x.toml",
		"dir/x.toml": "dir/x.yaml",
		"x.yml":      "x.json",
	}
	for in, want := range tests {
		if got := defaultConvertTarget(in); got != want {
			t.Errorf("defaultConvertTarget(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDot(t *testing.T) {
	out, err := run(t, "dot", writeSample(t))
	if err != nil {
		t.Fatalf("dot: %v", err)
	}
	if !strings.Contains(out, `"a" -> "b"`) || !strings.Contains(out, `label="demo"`) {
		t.Errorf("dot output:\n%s", out)
	}
}

func TestSVG(t *testing.T) {
	out, err := run(t, "svg", writeSample(t), "--zoom", "200", "--select", "b", "--width", "400", "--height", "300")
	if err != nil {
		t.Fatalf("svg: %v", err)
	}
	// height: lowest block 120 + 400 margin
	for _, want := range []string{
		`viewBox="0 0 400 520"`,
		`width="800" height="1040"`,
		`class="block-selected" data-id="b"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("svg output missing %q", want)
		}
	}
}

func TestPNGRequiresOutput(t *testing.T) {
	if _, err := run(t, "png", writeSample(t)); err == nil {
		t.Errorf("png without --output should fail")
	}

	path := filepath.Join(t.TempDir(), "out.png")
	if _, err := run(t, "png", writeSample(t), "-o", path, "--zoom", "50"); err != nil {
		t.Fatalf("png: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("png not written: %v", err)
	}
}
