// Copyright 2026 The FastEstimator Authors. SPDX-License-Identifier: Apache-2.0

package mscoco

import (
	"fmt"
	"path"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubsample(t *testing.T) {
	dir := t.TempDir()
	var names []string
	for i := 1; i <= 10; i++ {
		names = append(names, fmt.Sprintf("%06d.jpg", i))
	}
	writeImageFiles(t, dir, names...)

	require.NoError(t, Subsample(dir, 5, Config{}))
	remaining, err := listDir(dir, false)
	require.NoError(t, err)
	require.Equal(t, names[:5], remaining, "first 5 in sorted order must survive")

	// Already at the cap: no-op.
	require.NoError(t, Subsample(dir, 5, Config{}))
	remaining, err = listDir(dir, false)
	require.NoError(t, err)
	require.Len(t, remaining, 5)

	// sampleNum=0 empties the directory.
	require.NoError(t, Subsample(dir, 0, Config{}))
	remaining, err = listDir(dir, false)
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func TestSubsampleMissingDir(t *testing.T) {
	require.NoError(t, Subsample(path.Join(t.TempDir(), "missing"), 5, Config{}))
}

// writeLocalDataset lays out an already-extracted MSCOCO2017 tree under
// rootDir, so LoadData has nothing to download.
func writeLocalDataset(t *testing.T, rootDir string, trainCount, evalCount int) {
	t.Helper()
	baseDir := path.Join(rootDir, DatasetSubdir)
	var trainNames, evalNames []string
	var images []map[string]any
	for i := 1; i <= trainCount; i++ {
		trainNames = append(trainNames, fmt.Sprintf("%06d.jpg", i))
		images = append(images, imgJSON(i, 10, 10))
	}
	for i := 1; i <= evalCount; i++ {
		evalNames = append(evalNames, fmt.Sprintf("%06d.jpg", i))
	}
	writeImageFiles(t, path.Join(baseDir, TrainImagesDir), trainNames...)
	writeImageFiles(t, path.Join(baseDir, EvalImagesDir), evalNames...)

	annotationsDir := path.Join(baseDir, AnnotationsDir)
	square := [][]float64{{2, 2, 8, 2, 8, 8, 2, 8}}
	anns := []map[string]any{boxAnnJSON(100, 1, 18, [4]float32{2, 2, 6, 6}, 0, square)}
	captions := []map[string]any{captionAnnJSON(200, 1, "a dog")}
	writeImageFiles(t, annotationsDir) // Just creates the directory.
	writeAnnotationFile(t, path.Join(annotationsDir, "instances_train2017.json"), images, anns)
	writeAnnotationFile(t, path.Join(annotationsDir, "instances_val2017.json"), images, anns)
	writeAnnotationFile(t, path.Join(annotationsDir, "captions_train2017.json"), images, captions)
	writeAnnotationFile(t, path.Join(annotationsDir, "captions_val2017.json"), images, captions)
}

func TestLoadDataSubsamplesExistingDirs(t *testing.T) {
	rootDir := t.TempDir()
	writeLocalDataset(t, rootDir, 10, 3)

	train, eval, err := LoadData(rootDir, 5, Config{Bboxes: true})
	require.NoError(t, err)
	require.Equal(t, 5, train.Len(), "train split must be pruned to the cap")
	require.Equal(t, 3, eval.Len(), "eval split is below the cap and stays whole")
}

func TestLoadDataIdempotent(t *testing.T) {
	rootDir := t.TempDir()
	writeLocalDataset(t, rootDir, 8, 8)

	train1, eval1, err := LoadData(rootDir, 4, Config{Bboxes: true})
	require.NoError(t, err)
	train2, eval2, err := LoadData(rootDir, 4, Config{Bboxes: true})
	require.NoError(t, err)
	require.Equal(t, train1.Len(), train2.Len())
	require.Equal(t, eval1.Len(), eval2.Len())
	require.Equal(t, 4, train2.Len())
}

func TestLoadDataZeroSamples(t *testing.T) {
	rootDir := t.TempDir()
	writeLocalDataset(t, rootDir, 3, 3)

	train, eval, err := LoadData(rootDir, 0, Config{Bboxes: true})
	require.NoError(t, err)
	require.Equal(t, 0, train.Len())
	require.Equal(t, 0, eval.Len())
}
