//go:build !amd64 && !arm64

package hwy

func init() {
	// No vector unit is detected on other architectures, but 64-bit word
	// arithmetic still pays off, so SWAR stays on unless disabled.
	setScalarMode()
	if NoSimdEnv() {
		useScalarKernels()
		return
	}
	useSWARKernels()
}
