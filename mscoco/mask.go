// Copyright 2026 The FastEstimator Authors. SPDX-License-Identifier: Apache-2.0

package mscoco

import (
	"image"
	"image/color"

	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/pkg/errors"
)

// maskOn is the pixel value of points inside the mask; outside points are 0.
const maskOn = 0xFF

// MaskFor renders the annotation's segmentation as a binary mask aligned to
// its image: polygon segmentations are rasterized, uncompressed RLEs decoded.
func (idx *AnnotationIndex) MaskFor(ann Annotation) (*image.Gray, error) {
	if ann.Segmentation.compressed {
		return nil, errors.Errorf("annotation %d of image %d uses compressed RLE counts, which are not supported", ann.ID, ann.ImageID)
	}
	if rle := ann.Segmentation.RLE; rle != nil {
		return rleToMask(rle)
	}
	if len(ann.Segmentation.Polygons) == 0 {
		return nil, errors.Errorf("annotation %d of image %d has no segmentation", ann.ID, ann.ImageID)
	}
	width, height, err := idx.imageSize(ann.ImageID)
	if err != nil {
		return nil, err
	}
	return polygonsToMask(ann.Segmentation.Polygons, width, height)
}

// polygonsToMask rasterizes the union of the polygons into a width x height
// binary mask. Each polygon is a flat [x0, y0, x1, y1, ...] list.
func polygonsToMask(polygons [][]float64, width, height int) (*image.Gray, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	gc := draw2dimg.NewGraphicContext(canvas)
	gc.SetFillColor(color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	gc.SetStrokeColor(color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	for _, polygon := range polygons {
		if len(polygon) < 6 || len(polygon)%2 != 0 {
			return nil, errors.Errorf("invalid segmentation polygon with %d coordinates", len(polygon))
		}
		gc.MoveTo(polygon[len(polygon)-2], polygon[len(polygon)-1])
		for i := 0; i < len(polygon); i += 2 {
			gc.LineTo(polygon[i], polygon[i+1])
		}
		gc.Close()
	}
	gc.FillStroke()

	mask := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if _, _, _, a := canvas.At(x, y).RGBA(); a >= 0x8000 {
				mask.SetGray(x, y, color.Gray{Y: maskOn})
			}
		}
	}
	return mask, nil
}

// rleToMask decodes an uncompressed RLE into a binary mask. COCO RLEs are
// column-major: runs alternate between off and on pixels, starting with off,
// walking down each column.
func rleToMask(rle *RLE) (*image.Gray, error) {
	height, width := rle.Size[0], rle.Size[1]
	if height <= 0 || width <= 0 {
		return nil, errors.Errorf("invalid RLE size %v", rle.Size)
	}
	total := 0
	for _, count := range rle.Counts {
		if count < 0 {
			return nil, errors.Errorf("negative RLE count %d", count)
		}
		total += count
	}
	if total != width*height {
		return nil, errors.Errorf("RLE counts sum to %d, but mask has %d pixels", total, width*height)
	}
	mask := image.NewGray(image.Rect(0, 0, width, height))
	pos := 0
	on := false
	for _, count := range rle.Counts {
		if on {
			for i := 0; i < count; i++ {
				p := pos + i
				mask.SetGray(p/height, p%height, color.Gray{Y: maskOn})
			}
		}
		pos += count
		on = !on
	}
	return mask, nil
}
