// Copyright 2026 The FastEstimator Authors. SPDX-License-Identifier: Apache-2.0

// Package mscoco downloads a subsample of the MSCOCO 2017 dataset to local
// storage and serves samples that lazily join each image with its bounding
// box, mask and caption annotations.
//
// The dataset's home page is https://cocodataset.org/.
//
// Usage example:
//
//	train, eval, err := mscoco.LoadData("", 1000, mscoco.Config{Bboxes: true})
//	if err != nil { ... }
//	sample, err := train.At(0)
//
// Samples are joined on demand: an image whose annotations don't cover every
// requested kind is transparently skipped and another image is drawn in its
// place. See Dataset.At for details.
package mscoco

const (
	TrainImagesURL = "http://images.cocodataset.org/zips/train2017.zip"
	EvalImagesURL  = "http://images.cocodataset.org/zips/val2017.zip"
	AnnotationsURL = "http://images.cocodataset.org/annotations/annotations_trainval2017.zip"

	// DatasetSubdir is appended to the root directory given to LoadData; all
	// archives are downloaded and extracted under it.
	DatasetSubdir = "MSCOCO2017"

	// DefaultRootDir is used by LoadData when no root directory is given.
	DefaultRootDir = "~/fastestimator_data"

	TrainImagesDir = "train2017"
	EvalImagesDir  = "val2017"
	AnnotationsDir = "annotations"
)
