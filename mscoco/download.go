// Copyright 2026 The FastEstimator Authors. SPDX-License-Identifier: Apache-2.0

package mscoco

import (
	"os"
	"path"

	"github.com/chm123/fastestimator-misc/pkg/support/downloader"
	"github.com/chm123/fastestimator-misc/pkg/support/fsutil"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
)

// LoadData makes sure local storage under rootDir holds at most sampleNum
// images per split, downloading and extracting the archives for any split
// directory that is missing, and returns the train and eval datasets wired
// per cfg.
//
// rootDir may be empty, in which case DefaultRootDir is used; either way the
// data lives under the DatasetSubdir subdirectory.
//
// Subsampling runs before the download check, so it only ever prunes split
// directories extracted by a previous run: a fresh download is left at its
// full size until the next call.
//
// Archives are downloaded sequentially; the first failure aborts and is
// returned, leaving anything already extracted on disk for the next run.
func LoadData(rootDir string, sampleNum int, cfg Config) (train, eval *Dataset, err error) {
	if rootDir == "" {
		rootDir = DefaultRootDir
	}
	rootDir, err = fsutil.ReplaceTildeInDir(rootDir)
	if err != nil {
		return nil, nil, err
	}
	rootDir = path.Join(rootDir, DatasetSubdir)
	if err = os.MkdirAll(rootDir, 0777); err != nil && !os.IsExist(err) {
		return nil, nil, errors.Wrapf(err, "failed to create dataset directory %q", rootDir)
	}

	trainDir := path.Join(rootDir, TrainImagesDir)
	evalDir := path.Join(rootDir, EvalImagesDir)
	annotationsDir := path.Join(rootDir, AnnotationsDir)

	for _, dir := range []string{trainDir, evalDir} {
		if err = Subsample(dir, sampleNum, cfg); err != nil {
			return nil, nil, err
		}
	}

	archives := []struct {
		targetDir, zipName, url string
	}{
		{trainDir, "train2017.zip", TrainImagesURL},
		{evalDir, "val2017.zip", EvalImagesURL},
		{annotationsDir, "annotations_trainval2017.zip", AnnotationsURL},
	}
	for _, archive := range archives {
		zipPath := path.Join(rootDir, archive.zipName)
		err = downloader.DownloadAndUnzipIfMissing(archive.url, zipPath, rootDir, archive.targetDir, "", cfg.Verbose)
		if err != nil {
			return nil, nil, errors.WithMessagef(err, "failed to fetch %q", archive.zipName)
		}
	}

	train, err = NewDataset(trainDir,
		path.Join(annotationsDir, "instances_train2017.json"),
		path.Join(annotationsDir, "captions_train2017.json"), cfg)
	if err != nil {
		return nil, nil, err
	}
	eval, err = NewDataset(evalDir,
		path.Join(annotationsDir, "instances_val2017.json"),
		path.Join(annotationsDir, "captions_val2017.json"), cfg)
	if err != nil {
		return nil, nil, err
	}
	return train, eval, nil
}

// Subsample keeps the first sampleNum files of dirPath in listing order --
// sorted by default, raw directory order with cfg.ReaddirOrder -- and deletes
// the rest. A missing directory is a no-op.
func Subsample(dirPath string, sampleNum int, cfg Config) error {
	exists, err := fsutil.FileExists(dirPath)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	names, err := listDir(dirPath, cfg.ReaddirOrder)
	if err != nil {
		return err
	}
	if len(names) <= sampleNum {
		return nil
	}
	var bar *progressbar.ProgressBar
	if cfg.Verbose {
		bar = progressbar.NewOptions(len(names)-sampleNum,
			progressbar.OptionSetDescription("Subsampling "+path.Base(dirPath)),
			progressbar.OptionUseANSICodes(true),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("images"),
			progressbar.OptionSetTheme(progressbar.ThemeUnicode),
		)
	}
	for _, name := range names[sampleNum:] {
		if err = os.Remove(path.Join(dirPath, name)); err != nil {
			return errors.Wrapf(err, "failed to remove %q while subsampling %q", name, dirPath)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Close()
	}
	return nil
}
