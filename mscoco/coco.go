// Copyright 2026 The FastEstimator Authors. SPDX-License-Identifier: Apache-2.0

package mscoco

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// COCO annotation JSON schema. The same schema covers both the instances
// files (bbox/segmentation/category) and the captions files (caption);
// unused fields are simply left at their zero value.

type cocoImage struct {
	ID       int    `json:"id"`
	FileName string `json:"file_name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// RLE is a run-length encoded binary mask in COCO's column-major order.
// Size is [height, width].
type RLE struct {
	Counts []int  `json:"counts"`
	Size   [2]int `json:"size"`
}

// Segmentation is either a list of polygons or an RLE: COCO uses the same
// JSON field for both, so it needs a polymorphic decoder.
//
// Compressed (string-counts) RLEs only appear in results files, never in the
// annotation archives, and are rejected when a mask is requested.
type Segmentation struct {
	Polygons   [][]float64
	RLE        *RLE
	compressed bool
}

// empty reports whether the annotation carries no mask source at all.
func (s Segmentation) empty() bool {
	return len(s.Polygons) == 0 && s.RLE == nil
}

func (s *Segmentation) UnmarshalJSON(data []byte) error {
	if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
		var raw struct {
			Counts json.RawMessage `json:"counts"`
			Size   [2]int          `json:"size"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		rle := &RLE{Size: raw.Size}
		if len(raw.Counts) > 0 && raw.Counts[0] == '"' {
			// Compressed counts: remember it, fail only if a mask is requested.
			s.compressed = true
			s.RLE = rle
			return nil
		}
		if err := json.Unmarshal(raw.Counts, &rle.Counts); err != nil {
			return err
		}
		s.RLE = rle
		return nil
	}
	return json.Unmarshal(data, &s.Polygons)
}

// Annotation is one COCO annotation record: a bounding box with category and
// segmentation for instance annotations, or a caption text for caption
// annotations.
type Annotation struct {
	ID           int          `json:"id"`
	ImageID      int          `json:"image_id"`
	CategoryID   int          `json:"category_id"`
	BBox         [4]float32   `json:"bbox"`
	IsCrowd      int          `json:"iscrowd"`
	Segmentation Segmentation `json:"segmentation"`
	Caption      string       `json:"caption"`
}

type cocoFile struct {
	Images      []cocoImage  `json:"images"`
	Annotations []Annotation `json:"annotations"`
}

// AnnotationIndex holds one COCO annotation file, fully parsed and indexed by
// image id. It is built once at dataset construction and never mutated, so it
// is safe to share between goroutines.
type AnnotationIndex struct {
	byImage map[int][]Annotation // Source order preserved per image.
	images  map[int]cocoImage
}

// LoadAnnotationIndex parses and indexes a COCO annotation JSON file
// (an instances_*.json or captions_*.json file).
func LoadAnnotationIndex(filePath string) (*AnnotationIndex, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read annotation file %q", filePath)
	}
	var file cocoFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, "failed to parse annotation file %q", filePath)
	}
	idx := &AnnotationIndex{
		byImage: make(map[int][]Annotation, len(file.Images)),
		images:  make(map[int]cocoImage, len(file.Images)),
	}
	for _, img := range file.Images {
		idx.images[img.ID] = img
	}
	for _, ann := range file.Annotations {
		idx.byImage[ann.ImageID] = append(idx.byImage[ann.ImageID], ann)
	}
	return idx, nil
}

// InstancesFor returns the instance annotations of the given image, in source
// order. If excludeCrowd is set, crowd (grouped-region) annotations are
// filtered out. The returned slice is freshly allocated and owned by the caller.
func (idx *AnnotationIndex) InstancesFor(imageID int, excludeCrowd bool) []Annotation {
	anns := idx.byImage[imageID]
	result := make([]Annotation, 0, len(anns))
	for _, ann := range anns {
		if excludeCrowd && ann.IsCrowd != 0 {
			continue
		}
		result = append(result, ann)
	}
	return result
}

// CaptionsFor returns the caption strings of the given image, in source order.
func (idx *AnnotationIndex) CaptionsFor(imageID int) []string {
	anns := idx.byImage[imageID]
	result := make([]string, 0, len(anns))
	for _, ann := range anns {
		result = append(result, ann.Caption)
	}
	return result
}

// imageSize returns the width and height of the given image, needed to
// rasterize masks.
func (idx *AnnotationIndex) imageSize(imageID int) (width, height int, err error) {
	img, found := idx.images[imageID]
	if !found {
		err = errors.Errorf("image id %d not listed in annotation file", imageID)
		return
	}
	return img.Width, img.Height, nil
}
