// Copyright 2026 The FastEstimator Authors. SPDX-License-Identifier: Apache-2.0

package mscoco

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirDataset(t *testing.T) {
	dir := t.TempDir()
	writeImageFiles(t, dir, "000002.jpg", "000010.jpg", "000001.jpg")
	require.NoError(t, os.Mkdir(path.Join(dir, "subdir"), 0755)) // Must be skipped.

	ds, err := NewDirDataset(dir, false)
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())

	// Sorted listing: lexicographic by filename.
	key, filePath, err := ds.Entry(0)
	require.NoError(t, err)
	require.Equal(t, "000001", key)
	require.Equal(t, path.Join(dir, "000001.jpg"), filePath)
	key, _, err = ds.Entry(2)
	require.NoError(t, err)
	require.Equal(t, "000010", key)

	_, _, err = ds.Entry(3)
	require.Error(t, err)
	_, _, err = ds.Entry(-1)
	require.Error(t, err)

	filePath, ok := ds.ByKey("000010")
	require.True(t, ok)
	require.Equal(t, path.Join(dir, "000010.jpg"), filePath)
	_, ok = ds.ByKey("nope")
	require.False(t, ok)
}

func TestDirDatasetReaddirOrder(t *testing.T) {
	dir := t.TempDir()
	writeImageFiles(t, dir, "000002.jpg", "000001.jpg")
	ds, err := NewDirDataset(dir, true)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	// Order is whatever the file system returns; both entries must still be there.
	_, ok := ds.ByKey("000001")
	require.True(t, ok)
	_, ok = ds.ByKey("000002")
	require.True(t, ok)
}

func TestDirDatasetMissingDir(t *testing.T) {
	_, err := NewDirDataset(path.Join(t.TempDir(), "missing"), false)
	require.Error(t, err)
}
