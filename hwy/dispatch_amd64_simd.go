// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build amd64 && goexperiment.simd

package hwy

import (
	"simd/archsimd"

	"golang.org/x/sys/cpu"
)

func init() {
	if NoSimdEnv() {
		setScalarMode()
		useScalarKernels()
		return
	}

	detectCPUFeatures()
	useSWARKernels()
	if currentLevel >= DispatchAVX2 {
		useAVX2Kernels()
	}
}

func detectCPUFeatures() {
	// archsimd.X86.AVX512 covers F/BW/VL/DQ; the byte kernels need BW.
	if archsimd.X86.AVX512() && cpu.X86.HasAVX512BW {
		currentLevel = DispatchAVX512
		currentWidth = 64
	} else if archsimd.X86.AVX2() {
		currentLevel = DispatchAVX2
		currentWidth = 32
	} else {
		currentLevel = DispatchSSE2
		currentWidth = 16
	}
}
