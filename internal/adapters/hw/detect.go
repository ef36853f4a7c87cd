// Package hw detects whether the controller runs on its target board.
package hw

import (
	"os"
	"strings"
)

// DefaultModelPath is where the Linux device tree exposes the board model.
const DefaultModelPath = "/proc/device-tree/model"

const boardMarker = "Raspberry Pi"

// Detector implements ports.HardwareDetector by reading the device-tree model.
type Detector struct {
	path string
}

// NewDetector creates a detector reading DefaultModelPath.
func NewDetector() *Detector {
	return &Detector{path: DefaultModelPath}
}

// NewDetectorWithPath creates a detector reading the model from path.
func NewDetectorWithPath(path string) *Detector {
	return &Detector{path: path}
}

// Present reports whether the board model names a Raspberry Pi.
// Any read error means the hardware is absent.
func (d *Detector) Present() bool {
	model, err := d.Model()
	if err != nil {
		return false
	}
	return strings.Contains(model, boardMarker)
}

// Model returns the board model string with the trailing NUL removed.
func (d *Detector) Model() (string, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\x00\n"), nil
}

// Static is a fixed HardwareDetector answer.
type Static bool

// Present returns the fixed answer.
func (s Static) Present() bool {
	return bool(s)
}
