package profilestore

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Sidecar files carry a tiny self-describing header so a truncated or
// foreign file fails loudly instead of decoding into garbage.
var sidecarMagic = [4]byte{'V', 'F', 'A', 'R'}

const sidecarVersion uint32 = 1

// Element kinds stored in the header.
const (
	elemFloat32 uint8 = 1
	elemFloat64 uint8 = 2
)

// Guard against absurd headers from corrupt files.
const (
	maxSidecarDim  = 1 << 24
	maxSidecarRank = 2
)

func writeSidecarHeader(w io.Writer, elem uint8, dims ...uint32) error {
	if _, err := w.Write(sidecarMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, sidecarVersion); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, elem); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(len(dims))); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, dims)
}

func readSidecarHeader(r io.Reader, wantElem uint8, wantRank int) ([]uint32, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if magic != sidecarMagic {
		return nil, fmt.Errorf("bad magic %q", magic[:])
	}
	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	if version != sidecarVersion {
		return nil, fmt.Errorf("unsupported version %d", version)
	}
	var elem, rank uint8
	if err := binary.Read(r, binary.LittleEndian, &elem); err != nil {
		return nil, fmt.Errorf("read element kind: %w", err)
	}
	if elem != wantElem {
		return nil, fmt.Errorf("element kind %d, want %d", elem, wantElem)
	}
	if err := binary.Read(r, binary.LittleEndian, &rank); err != nil {
		return nil, fmt.Errorf("read rank: %w", err)
	}
	if int(rank) != wantRank || rank > maxSidecarRank {
		return nil, fmt.Errorf("rank %d, want %d", rank, wantRank)
	}
	dims := make([]uint32, rank)
	if err := binary.Read(r, binary.LittleEndian, dims); err != nil {
		return nil, fmt.Errorf("read dims: %w", err)
	}
	for _, d := range dims {
		if d > maxSidecarDim {
			return nil, fmt.Errorf("dimension %d too large", d)
		}
	}
	return dims, nil
}

// writeVector32 persists a float32 vector sidecar to path.
func writeVector32(path string, v []float32) error {
	return writeSidecarFile(path, func(w io.Writer) error {
		if err := writeSidecarHeader(w, elemFloat32, uint32(len(v))); err != nil {
			return err
		}
		return binary.Write(w, binary.LittleEndian, v)
	})
}

func readVector32(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := bufio.NewReader(f)
	dims, err := readSidecarHeader(r, elemFloat32, 1)
	if err != nil {
		return nil, fmt.Errorf("profilestore: sidecar %s: %w", path, err)
	}
	v := make([]float32, dims[0])
	if err := binary.Read(r, binary.LittleEndian, v); err != nil {
		return nil, fmt.Errorf("profilestore: sidecar %s: read data: %w", path, err)
	}
	return v, nil
}

// writeVector64 persists a float64 vector sidecar to path.
func writeVector64(path string, v []float64) error {
	return writeSidecarFile(path, func(w io.Writer) error {
		if err := writeSidecarHeader(w, elemFloat64, uint32(len(v))); err != nil {
			return err
		}
		return binary.Write(w, binary.LittleEndian, v)
	})
}

func readVector64(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := bufio.NewReader(f)
	dims, err := readSidecarHeader(r, elemFloat64, 1)
	if err != nil {
		return nil, fmt.Errorf("profilestore: sidecar %s: %w", path, err)
	}
	v := make([]float64, dims[0])
	if err := binary.Read(r, binary.LittleEndian, v); err != nil {
		return nil, fmt.Errorf("profilestore: sidecar %s: read data: %w", path, err)
	}
	return v, nil
}

// writeMatrix32 persists a row-major float32 matrix sidecar. All rows must
// have equal length.
func writeMatrix32(path string, m [][]float32) error {
	rows := uint32(len(m))
	var cols uint32
	if rows > 0 {
		cols = uint32(len(m[0]))
	}
	for i, row := range m {
		if uint32(len(row)) != cols {
			return fmt.Errorf("profilestore: ragged matrix: row %d has %d cols, want %d", i, len(row), cols)
		}
	}
	return writeSidecarFile(path, func(w io.Writer) error {
		if err := writeSidecarHeader(w, elemFloat32, rows, cols); err != nil {
			return err
		}
		for _, row := range m {
			if err := binary.Write(w, binary.LittleEndian, row); err != nil {
				return err
			}
		}
		return nil
	})
}

func readMatrix32(path string) ([][]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := bufio.NewReader(f)
	dims, err := readSidecarHeader(r, elemFloat32, 2)
	if err != nil {
		return nil, fmt.Errorf("profilestore: sidecar %s: %w", path, err)
	}
	rows, cols := dims[0], dims[1]
	m := make([][]float32, rows)
	for i := range m {
		m[i] = make([]float32, cols)
		if err := binary.Read(r, binary.LittleEndian, m[i]); err != nil {
			return nil, fmt.Errorf("profilestore: sidecar %s: read row %d: %w", path, i, err)
		}
	}
	return m, nil
}

func writeSidecarFile(path string, fill func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := fill(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
