package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/picwizard/internal/transform"
)

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeImage(t *testing.T, w, h int, c color.Color) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "in.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    map[string]string
		wantErr bool
	}{
		{"empty", nil, map[string]string{}, false},
		{"single", []string{"gamma=2.2"}, map[string]string{"gamma": "2.2"}, false},
		{"value with equals", []string{"points=(0,0)=x"}, map[string]string{"points": "(0,0)=x"}, false},
		{"later wins", []string{"radius=3", "radius=7"}, map[string]string{"radius": "7"}, false},
		{"trimmed key", []string{" amount =1"}, map[string]string{"amount": "1"}, false},
		{"missing equals", []string{"gamma"}, nil, true},
		{"empty key", []string{"=5"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseParams(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s: got %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		path, fallback, want string
	}{
		{"out.png", "jpeg", "png"},
		{"out.JPG", "png", "jpeg"},
		{"out.jpeg", "png", "jpeg"},
		{"out.img", "jpeg", "jpeg"},
		{"out", "png", "png"},
	}
	for _, tt := range tests {
		if got := outputFormat(tt.path, tt.fallback); got != tt.want {
			t.Errorf("outputFormat(%q, %q) = %q, want %q", tt.path, tt.fallback, got, tt.want)
		}
	}
}

func TestApply(t *testing.T) {
	in := writeImage(t, 10, 6, color.NRGBA{100, 150, 200, 255})
	outPath := filepath.Join(t.TempDir(), "out.png")

	stdout, err := run(t, "apply", "-i", in, "-o", outPath, "--op", "super_resolution", "-p", "scale_factor=3")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !strings.Contains(stdout, "30x18") {
		t.Errorf("stdout: got %q, want it to mention 30x18", stdout)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("output is not a png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 30 || b.Dy() != 18 {
		t.Errorf("size: got %dx%d, want 30x18", b.Dx(), b.Dy())
	}
}

func TestApply_Errors(t *testing.T) {
	in := writeImage(t, 4, 4, color.NRGBA{1, 2, 3, 255})
	outPath := filepath.Join(t.TempDir(), "out.png")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown op", []string{"--op", "posterize"}, "unknown enhancement method"},
		{"bad param", []string{"--op", "gamma_correction", "-p", "gamma=abc"}, "invalid parameter"},
		{"malformed flag", []string{"--op", "gamma_correction", "-p", "gamma"}, "key=value"},
		{"palette op", []string{"--op", "extract_palette"}, "palette command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"apply", "-i", in, "-o", outPath}, tt.args...)
			_, err := run(t, args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestPalette_JSON(t *testing.T) {
	in := writeImage(t, 8, 8, color.NRGBA{0x33, 0x66, 0xcc, 255})

	stdout, err := run(t, "palette", "-i", in, "-n", "4", "--json")
	if err != nil {
		t.Fatalf("palette: %v", err)
	}

	var palette transform.Palette
	if err := json.Unmarshal([]byte(stdout), &palette); err != nil {
		t.Fatalf("invalid json %q: %v", stdout, err)
	}
	if len(palette) != 1 || palette[0].Hex != "#3366cc" {
		t.Errorf("got %+v, want a single #3366cc swatch", palette)
	}
}

func TestPalette_Text(t *testing.T) {
	in := writeImage(t, 8, 8, color.NRGBA{255, 255, 255, 255})

	stdout, err := run(t, "palette", "-i", in)
	if err != nil {
		t.Fatalf("palette: %v", err)
	}
	if !strings.Contains(stdout, "#ffffff") || !strings.Contains(stdout, "100.00%") {
		t.Errorf("stdout: got %q", stdout)
	}
}

func TestOps(t *testing.T) {
	stdout, err := run(t, "ops")
	if err != nil {
		t.Fatalf("ops: %v", err)
	}
	for _, name := range []string{"histogram_equalization", "clahe_enhance", "edge_detection", "extract_palette"} {
		if !strings.Contains(stdout, name) {
			t.Errorf("ops output missing %s", name)
		}
	}
	if !strings.Contains(stdout, "[sobel|canny]") {
		t.Error("ops output should list edge_detection methods")
	}
}

func TestConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "picwizard.yaml")
	if err := os.WriteFile(cfgPath, []byte("output:\n  format: jpeg\n"), 0644); err != nil {
		t.Fatal(err)
	}
	in := writeImage(t, 4, 4, color.NRGBA{10, 20, 30, 255})
	outPath := filepath.Join(t.TempDir(), "out.img")

	if _, err := run(t, "--config", cfgPath, "apply", "-i", in, "-o", outPath, "--op", "sharpen"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Error("unknown extension should use the configured jpeg format")
	}
}

func TestConfigFile_Missing(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "ops")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestVersion(t *testing.T) {
	stdout, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(stdout, "picwizard dev") {
		t.Errorf("stdout: got %q", stdout)
	}
}
