package filter

import "image"

// sharpenKernel is the edge-enhancing 3x3 convolution: center 5, four
// neighbors -1, corners 0. Kernel weights sum to 1, so flat regions are
// preserved and only gradients are amplified.
var sharpenKernel = [3][3]float64{
	{0, -1, 0},
	{-1, 5, -1},
	{0, -1, 0},
}

// sharpen convolves buf with sharpenKernel and blends the result with the
// original by the given weight (0-1). Border pixels use clamped (replicated)
// edge values. Alpha is carried over from the original unchanged.
func sharpen(buf *image.NRGBA, weight float64) *image.NRGBA {
	b := buf.Bounds()
	width, height := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sr, sg, sb float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					k := sharpenKernel[ky+1][kx+1]
					if k == 0 {
						continue
					}
					py := clampInt(y+ky, 0, height-1)
					px := clampInt(x+kx, 0, width-1)
					i := py*buf.Stride + px*4
					sr += k * float64(buf.Pix[i])
					sg += k * float64(buf.Pix[i+1])
					sb += k * float64(buf.Pix[i+2])
				}
			}

			i := y*buf.Stride + x*4
			o := y*out.Stride + x*4
			or := float64(buf.Pix[i])
			og := float64(buf.Pix[i+1])
			ob := float64(buf.Pix[i+2])

			out.Pix[o] = clamp8(or + weight*(sr-or))
			out.Pix[o+1] = clamp8(og + weight*(sg-og))
			out.Pix[o+2] = clamp8(ob + weight*(sb-ob))
			out.Pix[o+3] = buf.Pix[i+3]
		}
	}
	return out
}

// clampInt constrains an integer value to the range [min, max].
// Used for boundary handling in the convolution.
func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
