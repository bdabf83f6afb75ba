package grid

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// NPY v1.0 container for a little-endian float64 array of shape
// (frames, rows, cols, 3), the format the triangulation stage writes.

var npyMagic = []byte("\x93NUMPY")

var npyShapePattern = regexp.MustCompile(`'shape':\s*\(([^)]*)\)`)

// ReadNPY parses an NPY v1.x float64 array of shape (frames, rows, cols, 3).
func ReadNPY(r io.Reader) (*Grid, error) {
	br := bufio.NewReader(r)

	magic := make([]byte, 6)
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, fmt.Errorf("failed to read npy magic: %w", err)
	}
	if !bytes.Equal(magic, npyMagic) {
		return nil, fmt.Errorf("not an npy file (magic %q)", magic)
	}

	ver := make([]byte, 2)
	if _, err := io.ReadFull(br, ver); err != nil {
		return nil, fmt.Errorf("failed to read npy version: %w", err)
	}
	if ver[0] != 1 {
		return nil, fmt.Errorf("unsupported npy major version %d", ver[0])
	}

	var headerLen uint16
	if err := binary.Read(br, binary.LittleEndian, &headerLen); err != nil {
		return nil, fmt.Errorf("failed to read npy header length: %w", err)
	}

	header := make([]byte, headerLen)
	if _, err := io.ReadFull(br, header); err != nil {
		return nil, fmt.Errorf("failed to read npy header: %w", err)
	}
	h := string(header)

	if !strings.Contains(h, "'descr': '<f8'") {
		return nil, fmt.Errorf("npy dtype must be little-endian float64, header: %s", strings.TrimSpace(h))
	}
	if !strings.Contains(h, "'fortran_order': False") {
		return nil, fmt.Errorf("fortran-ordered npy arrays are not supported")
	}

	shape, err := parseShape(h)
	if err != nil {
		return nil, err
	}
	if len(shape) != 4 || shape[3] != 3 {
		return nil, fmt.Errorf("expected shape (frames, rows, cols, 3), got %v", shape)
	}

	g := New(shape[0], shape[1], shape[2])
	if err := binary.Read(br, binary.LittleEndian, g.data); err != nil {
		return nil, fmt.Errorf("failed to read npy data: %w", err)
	}
	return g, nil
}

// WriteNPY writes the grid as an NPY v1.0 float64 array.
func (g *Grid) WriteNPY(w io.Writer) error {
	header := fmt.Sprintf(
		"{'descr': '<f8', 'fortran_order': False, 'shape': (%d, %d, %d, 3), }",
		g.Frames, g.Rows, g.Cols,
	)
	// Pad with spaces so the data section starts on a 64-byte boundary;
	// the header must end with a newline.
	total := 6 + 2 + 2 + len(header) + 1
	pad := (64 - total%64) % 64
	header += strings.Repeat(" ", pad) + "\n"

	bw := bufio.NewWriter(w)
	bw.Write(npyMagic)
	bw.Write([]byte{1, 0})
	binary.Write(bw, binary.LittleEndian, uint16(len(header)))
	bw.WriteString(header)
	if err := binary.Write(bw, binary.LittleEndian, g.data); err != nil {
		return fmt.Errorf("failed to write npy data: %w", err)
	}
	return bw.Flush()
}

// LoadNPY reads a grid from an NPY file on disk.
func LoadNPY(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open grid file: %w", err)
	}
	defer f.Close()

	g, err := ReadNPY(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// SaveNPY writes the grid to an NPY file on disk.
func (g *Grid) SaveNPY(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create grid file: %w", err)
	}
	if err := g.WriteNPY(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func parseShape(header string) ([]int, error) {
	m := npyShapePattern.FindStringSubmatch(header)
	if m == nil {
		return nil, fmt.Errorf("npy header missing shape: %s", strings.TrimSpace(header))
	}
	var shape []int
	for _, part := range strings.Split(m[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("bad npy shape component %q", part)
		}
		if n < 0 || n > math.MaxInt32 {
			return nil, fmt.Errorf("npy shape component %d out of range", n)
		}
		shape = append(shape, n)
	}
	return shape, nil
}
