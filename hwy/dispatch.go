package hwy

import (
	"fmt"
	"os"
	"strconv"
	"unsafe"
)

// DispatchLevel represents the vector instruction set detected at startup.
type DispatchLevel int

const (
	// DispatchScalar indicates no vector unit is used; kernels run one byte at a time.
	DispatchScalar DispatchLevel = iota

	// DispatchSSE2 indicates SSE2 instructions (x86-64 baseline, 128-bit).
	DispatchSSE2

	// DispatchAVX2 indicates AVX2 instructions (256-bit).
	DispatchAVX2

	// DispatchAVX512 indicates AVX-512BW instructions (512-bit).
	DispatchAVX512

	// DispatchNEON indicates ARM NEON instructions (128-bit).
	DispatchNEON
)

// String returns a human-readable name for the dispatch level.
func (d DispatchLevel) String() string {
	switch d {
	case DispatchScalar:
		return "scalar"
	case DispatchSSE2:
		return "sse2"
	case DispatchAVX2:
		return "avx2"
	case DispatchAVX512:
		return "avx512"
	case DispatchNEON:
		return "neon"
	default:
		return "unknown"
	}
}

// noSimdEnvVar forces the scalar kernels regardless of CPU capabilities.
const noSimdEnvVar = "PIXBUF_NO_SIMD"

// currentLevel is the detected vector level for this runtime.
// Set by init() in dispatch_*.go files.
var currentLevel DispatchLevel

// currentWidth is the vector register width in bytes for the current level.
// Set by init() in dispatch_*.go files.
var currentWidth = 16

// CurrentLevel returns the vector instruction set being used.
func CurrentLevel() DispatchLevel {
	return currentLevel
}

// CurrentWidth returns the vector register width in bytes.
// For example: 16 for SSE2/NEON, 32 for AVX2, 64 for AVX-512.
// Scalar mode reports 16 so that lane counts stay meaningful.
func CurrentWidth() int {
	return currentWidth
}

// CurrentName returns a human-readable name for the current target.
func CurrentName() string {
	return currentLevel.String()
}

// Info describes the dispatch target and kernel family in one line,
// e.g. "avx2 (32-byte vectors, swar kernels)".
func Info() string {
	return fmt.Sprintf("%s (%d-byte vectors, %s kernels)", CurrentName(), currentWidth, kernelName)
}

// NoSimdEnv reports whether PIXBUF_NO_SIMD is set.
// Any non-empty value other than a false boolean disables vector kernels.
func NoSimdEnv() bool {
	val := os.Getenv(noSimdEnvVar)
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

// MaxLanes returns the number of lanes of type T in one vector of the current width.
//
// With AVX2 (32 bytes): uint8 → 32 lanes, float32 → 8 lanes.
func MaxLanes[T Lanes]() int {
	var dummy T
	elementSize := int(unsafe.Sizeof(dummy))
	return currentWidth / elementSize
}

func setScalarMode() {
	currentLevel = DispatchScalar
	currentWidth = 16
}
