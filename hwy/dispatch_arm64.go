//go:build arm64

package hwy

import "golang.org/x/sys/cpu"

func init() {
	if NoSimdEnv() {
		setScalarMode()
		useScalarKernels()
		return
	}

	// ASIMD is part of the ARMv8-A base architecture; the check keeps the
	// scalar path reachable on exotic cores that report otherwise.
	if cpu.ARM64.HasASIMD {
		currentLevel = DispatchNEON
		currentWidth = 16
		useSWARKernels()
		return
	}

	setScalarMode()
	useScalarKernels()
}
