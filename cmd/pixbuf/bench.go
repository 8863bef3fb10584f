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

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-highway/pixbuf/hwy/contrib/image"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time brightness, blend and blur on a synthetic image",
	Args:  cobra.NoArgs,
	RunE:  runBench,
}

func init() {
	benchCmd.Flags().Int("width", 1920, "Image width in pixels")
	benchCmd.Flags().Int("height", 1080, "Image height in pixels")
	benchCmd.Flags().Int("channels", 3, "Bytes per pixel")
	benchCmd.Flags().IntP("iterations", "n", 10, "Runs per transform")
	benchCmd.Flags().Int("kernel", 5, "Blur kernel size (odd)")
	benchCmd.Flags().Float64("sigma", 1.5, "Blur sigma")
	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	channels, _ := cmd.Flags().GetInt("channels")
	iterations, _ := cmd.Flags().GetInt("iterations")
	kernel, _ := cmd.Flags().GetInt("kernel")
	sigma, _ := cmd.Flags().GetFloat64("sigma")
	if iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", iterations)
	}

	a, err := syntheticImage(width, height, channels, 0)
	if err != nil {
		return err
	}
	defer a.Release()
	b, err := syntheticImage(width, height, channels, 97)
	if err != nil {
		return err
	}
	defer b.Release()

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Image: %dx%dx%d (%d pixels, threshold %d)\n",
		width, height, channels, width*height, image.ParallelThreshold)
	fmt.Fprintf(w, "Target: %s\n", image.SIMDInfo())

	report := func(name string, fn func() error) error {
		start := time.Now()
		for range iterations {
			if err := fn(); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
		per := time.Since(start) / time.Duration(iterations)
		mbps := float64(width*height*channels) / per.Seconds() / 1e6
		fmt.Fprintf(w, "%-12s %12v/op %10.1f MB/s\n", name, per, mbps)
		return nil
	}

	work := a.Copy()
	defer work.Release()
	if err := report("brightness", func() error { return work.AdjustBrightness(1) }); err != nil {
		return err
	}
	if err := report("blend", func() error {
		out, err := image.Blend(a, b, 0.5)
		if err == nil {
			out.Release()
		}
		return err
	}); err != nil {
		return err
	}
	return report("blur", func() error {
		out, err := a.GaussianBlur(kernel, sigma)
		if err == nil {
			out.Release()
		}
		return err
	})
}

// syntheticImage returns a gradient image offset by seed.
func syntheticImage(width, height, channels, seed int) (*image.Image, error) {
	img, err := image.New(width, height, channels)
	if err != nil {
		return nil, err
	}
	data, err := img.MutableBytes()
	if err != nil {
		return nil, err
	}
	for y := range height {
		row := data[y*img.Stride() : y*img.Stride()+width*channels]
		for i := range row {
			row[i] = uint8(y + i + seed)
		}
	}
	return img, nil
}
