package profilestore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestVectorSidecarRoundTrip(t *testing.T) {
	dir := t.TempDir()

	p32 := filepath.Join(dir, "v32.vec")
	in32 := []float32{0.25, -1.5, 3.125, 0}
	if err := writeVector32(p32, in32); err != nil {
		t.Fatalf("writeVector32: %v", err)
	}
	out32, err := readVector32(p32)
	if err != nil {
		t.Fatalf("readVector32: %v", err)
	}
	if len(out32) != len(in32) {
		t.Fatalf("len = %d, want %d", len(out32), len(in32))
	}
	for i := range in32 {
		if out32[i] != in32[i] {
			t.Errorf("out32[%d] = %v, want %v", i, out32[i], in32[i])
		}
	}

	p64 := filepath.Join(dir, "v64.vec")
	in64 := []float64{110.5, 220.25, 98.0}
	if err := writeVector64(p64, in64); err != nil {
		t.Fatalf("writeVector64: %v", err)
	}
	out64, err := readVector64(p64)
	if err != nil {
		t.Fatalf("readVector64: %v", err)
	}
	for i := range in64 {
		if out64[i] != in64[i] {
			t.Errorf("out64[%d] = %v, want %v", i, out64[i], in64[i])
		}
	}
}

func TestMatrixSidecarRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.vec")
	in := [][]float32{
		{1, 2, 3},
		{4, 5, 6},
	}
	if err := writeMatrix32(path, in); err != nil {
		t.Fatalf("writeMatrix32: %v", err)
	}
	out, err := readMatrix32(path)
	if err != nil {
		t.Fatalf("readMatrix32: %v", err)
	}
	if len(out) != 2 || len(out[0]) != 3 {
		t.Fatalf("shape = %dx%d, want 2x3", len(out), len(out[0]))
	}
	for i := range in {
		for j := range in[i] {
			if out[i][j] != in[i][j] {
				t.Errorf("out[%d][%d] = %v, want %v", i, j, out[i][j], in[i][j])
			}
		}
	}
}

func TestMatrixSidecarRejectsRagged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.vec")
	err := writeMatrix32(path, [][]float32{{1, 2}, {3}})
	if err == nil {
		t.Fatal("expected error for ragged matrix")
	}
}

func TestSidecarRejectsCorrupt(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.vec")
	if err := os.WriteFile(bad, []byte("not a sidecar at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := readVector32(bad); err == nil {
		t.Error("expected error for bad magic")
	}

	// Right header shape but wrong element kind.
	p64 := filepath.Join(dir, "v64.vec")
	if err := writeVector64(p64, []float64{1, 2}); err != nil {
		t.Fatal(err)
	}
	if _, err := readVector32(p64); err == nil {
		t.Error("expected error reading float64 sidecar as float32")
	}
}
