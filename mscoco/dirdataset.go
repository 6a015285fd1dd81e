// Copyright 2026 The FastEstimator Authors. SPDX-License-Identifier: Apache-2.0

package mscoco

import (
	"os"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// DirDataset is the base dataset that backs a Dataset: a flat (non-recursive)
// listing of the regular files in one directory. Each entry is keyed by its
// filename stem (the name without extension).
//
// By default entries are sorted by filename, so indices are stable across
// runs and file systems. Pass readdirOrder=true to keep the raw directory
// order instead.
type DirDataset struct {
	root    string
	entries []dirEntry
	byKey   map[string]int
}

type dirEntry struct {
	key, path string
}

// NewDirDataset lists the regular files of rootDir.
func NewDirDataset(rootDir string, readdirOrder bool) (*DirDataset, error) {
	names, err := listDir(rootDir, readdirOrder)
	if err != nil {
		return nil, err
	}
	ds := &DirDataset{
		root:    rootDir,
		entries: make([]dirEntry, 0, len(names)),
		byKey:   make(map[string]int, len(names)),
	}
	for _, name := range names {
		key := strings.TrimSuffix(name, path.Ext(name))
		ds.byKey[key] = len(ds.entries)
		ds.entries = append(ds.entries, dirEntry{key: key, path: path.Join(rootDir, name)})
	}
	return ds, nil
}

// listDir returns the names of the regular files in dirPath, sorted by name
// unless readdirOrder is set.
func listDir(dirPath string, readdirOrder bool) ([]string, error) {
	f, err := os.Open(dirPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open directory %q", dirPath)
	}
	defer func() { _ = f.Close() }()
	infos, err := f.Readdir(-1)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list directory %q", dirPath)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		names = append(names, info.Name())
	}
	if !readdirOrder {
		sort.Strings(names)
	}
	return names, nil
}

// Len returns the number of files listed.
func (ds *DirDataset) Len() int { return len(ds.entries) }

// Entry returns the key and file path of the i-th entry.
func (ds *DirDataset) Entry(i int) (key, filePath string, err error) {
	if i < 0 || i >= len(ds.entries) {
		err = errors.Errorf("index %d out of range: directory %q has %d entries", i, ds.root, len(ds.entries))
		return
	}
	e := ds.entries[i]
	return e.key, e.path, nil
}

// ByKey returns the file path for the given filename stem.
func (ds *DirDataset) ByKey(key string) (filePath string, ok bool) {
	i, ok := ds.byKey[key]
	if !ok {
		return "", false
	}
	return ds.entries[i].path, true
}
