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

	"github.com/spf13/cobra"

	"github.com/go-highway/pixbuf/hwy/contrib/image"
)

var applyCmd = &cobra.Command{
	Use:   "apply [input] [output]",
	Short: "Apply brightness, blend and blur to an image file",
	Long: `Apply loads input, applies the requested transforms in the order
brightness, blend, blur, and saves the result to output. The output format
follows the file extension (png, jpg, bmp or pxz).`,
	Args: cobra.ExactArgs(2),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().Int("brightness", 0, "Brightness delta in [-255, 255]")
	applyCmd.Flags().String("blend", "", "Image to blend with")
	applyCmd.Flags().Float32("alpha", 0.5, "Weight of the input image when blending")
	applyCmd.Flags().Int("blur", 0, "Gaussian kernel size (odd), 0 to skip")
	applyCmd.Flags().Float64("sigma", 1.0, "Gaussian sigma")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	delta, _ := cmd.Flags().GetInt("brightness")
	blendPath, _ := cmd.Flags().GetString("blend")
	alpha, _ := cmd.Flags().GetFloat32("alpha")
	blurSize, _ := cmd.Flags().GetInt("blur")
	sigma, _ := cmd.Flags().GetFloat64("sigma")

	img, err := image.Open(args[0])
	if err != nil {
		return err
	}
	defer img.Release()

	if delta != 0 {
		if err := img.AdjustBrightness(delta); err != nil {
			return err
		}
	}
	if blendPath != "" {
		other, err := image.Open(blendPath)
		if err != nil {
			return err
		}
		out, err := image.Blend(img, other, alpha)
		other.Release()
		if err != nil {
			return err
		}
		img.Assign(out)
		out.Release()
	}
	if blurSize != 0 {
		out, err := img.GaussianBlur(blurSize, sigma)
		if err != nil {
			return err
		}
		img.Assign(out)
		out.Release()
	}

	if err := img.Save(args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%dx%d)\n", args[1], img.Width(), img.Height(), img.Channels())
	return nil
}
