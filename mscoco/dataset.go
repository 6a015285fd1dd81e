// Copyright 2026 The FastEstimator Authors. SPDX-License-Identifier: Apache-2.0

package mscoco

import (
	"image"
	"math/rand"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Config selects which annotation kinds a Dataset joins into its samples.
type Config struct {
	// Bboxes includes the bounding boxes of the non-crowd instance annotations.
	Bboxes bool
	// Masks includes per-instance binary masks. Requires Bboxes: mask data is
	// a by-product of instance iteration.
	Masks bool
	// Captions includes the caption strings.
	Captions bool

	// ReaddirOrder lists image directories in raw directory order instead of
	// sorted by filename. Sorted is the default so that indices and
	// subsampling are deterministic.
	ReaddirOrder bool

	// Verbose enables progress bars and download messages during LoadData.
	Verbose bool
}

// BBox is one object's bounding box: x/y is the top-left corner, in pixels.
type BBox struct {
	X, Y, W, H float32
	CategoryID int
}

// Sample is the unit served to callers: one image joined with the requested
// annotation kinds. Every Sample is an independently owned value; its slices
// are freshly allocated per access and never alias dataset internals.
type Sample struct {
	// Image is the path of the image file.
	Image string
	// ImageID is the integer stem of the image filename.
	ImageID int
	// BBoxes, in annotation-source order. Only set when Config.Bboxes.
	BBoxes []BBox
	// Masks parallel to BBoxes. Only set when Config.Masks.
	Masks []*image.Gray
	// Captions, in annotation-source order. Only set when Config.Captions.
	Captions []string
}

// Dataset joins the images of one MSCOCO split with their instance and
// caption annotations. It is immutable after construction, except for the
// random source used to resample incomplete entries.
type Dataset struct {
	dir       *DirDataset
	instances *AnnotationIndex
	captions  *AnnotationIndex
	cfg       Config

	maxAttempts int
	rng         *rand.Rand
}

// NewDataset creates a Dataset over the images of imageDir, joined with the
// instance annotations of instancesFile and, if cfg.Captions is set, the
// caption annotations of captionsFile.
//
// Both annotation files are parsed and indexed here, once; this is the
// expensive part of construction.
func NewDataset(imageDir, instancesFile, captionsFile string, cfg Config) (*Dataset, error) {
	if cfg.Masks && !cfg.Bboxes {
		return nil, errors.New("must include bboxes with mask data")
	}
	dir, err := NewDirDataset(imageDir, cfg.ReaddirOrder)
	if err != nil {
		return nil, err
	}
	instances, err := LoadAnnotationIndex(instancesFile)
	if err != nil {
		return nil, err
	}
	ds := &Dataset{
		dir:       dir,
		instances: instances,
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(time.Now().UTC().UnixNano())),
	}
	if cfg.Captions {
		ds.captions, err = LoadAnnotationIndex(captionsFile)
		if err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// WithMaxAttempts bounds the resampling loop of At: after n incomplete draws
// it gives up with an error instead of retrying forever. n == 0 restores the
// default unbounded behavior.
//
// Returns itself, to allow chain of method calls.
func (ds *Dataset) WithMaxAttempts(n int) *Dataset {
	ds.maxAttempts = n
	return ds
}

// WithRand sets the random source used to draw replacement indices.
// Useful for deterministic tests.
//
// Returns itself, to allow chain of method calls.
func (ds *Dataset) WithRand(rng *rand.Rand) *Dataset {
	ds.rng = rng
	return ds
}

// Len returns the number of images in the split.
func (ds *Dataset) Len() int { return ds.dir.Len() }

// ImagesDir returns the directory the split's images are listed from.
func (ds *Dataset) ImagesDir() string { return ds.dir.root }

// At returns the joined sample at the given position.
//
// If the image at that position lacks one of the requested annotation kinds,
// a new position is drawn uniformly at random and the lookup restarts, until
// a complete sample is found. With the default unbounded retries this never
// returns an "incomplete" error, but it also never terminates if no image in
// the split satisfies the configuration; use WithMaxAttempts to bound it.
func (ds *Dataset) At(index int) (Sample, error) {
	attempts := 0
	for {
		sample, err := ds.at(index)
		if err != nil {
			return Sample{}, err
		}
		if ds.complete(sample) {
			return sample, nil
		}
		attempts++
		if ds.maxAttempts > 0 && attempts >= ds.maxAttempts {
			return Sample{}, errors.Errorf(
				"no eligible sample found after %d attempts: no image satisfies the requested annotation kinds %+v",
				attempts, ds.cfg)
		}
		index = ds.rng.Intn(ds.Len())
	}
}

// ByKey returns the raw record for the given filename stem: only the image
// path, with no annotation join and no completeness retry. It mirrors the
// base dataset's lookup path and is meant for introspection, not training.
func (ds *Dataset) ByKey(key string) (Sample, error) {
	filePath, ok := ds.dir.ByKey(key)
	if !ok {
		return Sample{}, errors.Errorf("no image with key %q", key)
	}
	return Sample{Image: filePath}, nil
}

// at assembles the sample at index, complete or not.
func (ds *Dataset) at(index int) (Sample, error) {
	_, filePath, err := ds.dir.Entry(index)
	if err != nil {
		return Sample{}, err
	}
	imageID, err := parseImageID(filePath)
	if err != nil {
		return Sample{}, err
	}
	sample := Sample{Image: filePath, ImageID: imageID}
	if ds.cfg.Bboxes {
		anns := ds.instances.InstancesFor(imageID, true)
		sample.BBoxes = make([]BBox, 0, len(anns))
		if ds.cfg.Masks {
			sample.Masks = make([]*image.Gray, 0, len(anns))
		}
		for _, ann := range anns {
			sample.BBoxes = append(sample.BBoxes, BBox{
				X: ann.BBox[0], Y: ann.BBox[1], W: ann.BBox[2], H: ann.BBox[3],
				CategoryID: ann.CategoryID,
			})
			if ds.cfg.Masks && sample.Masks != nil {
				if ann.Segmentation.empty() {
					// No mask source for this image: an empty mask list makes
					// the sample incomplete, so it gets resampled.
					sample.Masks = nil
					continue
				}
				mask, err := ds.instances.MaskFor(ann)
				if err != nil {
					return Sample{}, errors.WithMessagef(err, "failed to build mask for image %d", imageID)
				}
				sample.Masks = append(sample.Masks, mask)
			}
		}
	}
	if ds.captions != nil {
		sample.Captions = ds.captions.CaptionsFor(imageID)
	}
	return sample, nil
}

// complete reports whether every requested annotation kind has at least one entry.
func (ds *Dataset) complete(sample Sample) bool {
	if ds.cfg.Bboxes && len(sample.BBoxes) == 0 {
		return false
	}
	if ds.cfg.Masks && len(sample.Masks) == 0 {
		return false
	}
	if ds.captions != nil && len(sample.Captions) == 0 {
		return false
	}
	return true
}

// parseImageID extracts the integer stem of an image filename:
// ".../000000000139.jpg" -> 139.
func parseImageID(filePath string) (int, error) {
	base := path.Base(filePath)
	stem := strings.TrimSuffix(base, path.Ext(base))
	id, err := strconv.Atoi(stem)
	if err != nil {
		return 0, errors.Wrapf(err, "image filename %q doesn't have an integer stem", base)
	}
	return id, nil
}
