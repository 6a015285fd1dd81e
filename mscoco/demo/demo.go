// Copyright 2026 The FastEstimator Authors. SPDX-License-Identifier: Apache-2.0

// demo downloads (if needed) a subsample of MSCOCO 2017 and prints a summary
// of the resulting train and eval datasets.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/chm123/fastestimator-misc/mscoco"
	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"
)

var (
	flagDataDir  = flag.String("data", mscoco.DefaultRootDir, "Directory to cache the downloaded dataset files.")
	flagSamples  = flag.Int("samples", 1000, "Maximum number of images kept per split.")
	flagBboxes   = flag.Bool("bboxes", true, "Include bounding boxes in the samples.")
	flagMasks    = flag.Bool("masks", false, "Include instance masks in the samples (requires --bboxes).")
	flagCaptions = flag.Bool("captions", false, "Include captions in the samples.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	cfg := mscoco.Config{
		Bboxes:   *flagBboxes,
		Masks:    *flagMasks,
		Captions: *flagCaptions,
		Verbose:  true,
	}
	train, eval, err := mscoco.LoadData(*flagDataDir, *flagSamples, cfg)
	if err != nil {
		klog.Fatalf("Failed to load MSCOCO 2017: %+v", err)
	}

	for _, split := range []struct {
		name string
		ds   *mscoco.Dataset
	}{{"train", train}, {"eval", eval}} {
		fmt.Printf("%s: %s images, %s on disk (%s)\n",
			split.name,
			humanize.Comma(int64(split.ds.Len())),
			humanize.Bytes(uint64(dirSize(split.ds.ImagesDir()))),
			split.ds.ImagesDir())
	}

	if train.Len() == 0 {
		return
	}
	sample, err := train.At(0)
	if err != nil {
		klog.Fatalf("Failed to read first sample: %+v", err)
	}
	fmt.Printf("sample: image_id=%d bboxes=%d masks=%d captions=%d (%s)\n",
		sample.ImageID, len(sample.BBoxes), len(sample.Masks), len(sample.Captions), sample.Image)
}

func dirSize(dirPath string) (total int64) {
	_ = filepath.WalkDir(dirPath, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return
}
