package repository

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
)

// ErrNoResources is returned when a location holds no locale files
var ErrNoResources = errors.New("no locale resources found")

// Layout is the arrangement of locale files under a location
type Layout string

const (
	LayoutUnknown Layout = ""
	// LayoutFlat stores one file per language: <lang>.json
	LayoutFlat Layout = "flat"
	// LayoutNested stores one folder per language with a file per namespace: <lang>/<namespace>.json
	LayoutNested Layout = "nested"
)

// Detector identifies locale layout of a location
type Detector struct {
	fs afs.Service
	// folders skipped while detecting
	skip map[string]bool
}

// NewDetector creates a detector
func NewDetector(fs afs.Service) *Detector {
	if fs == nil {
		fs = afs.New()
	}
	return &Detector{
		fs: fs,
		skip: map[string]bool{
			".git":         true,
			"node_modules": true,
		},
	}
}

// Detect returns layout of locale files under URL
func (d *Detector) Detect(ctx context.Context, URL string) (Layout, error) {
	objects, err := d.list(ctx, URL)
	if err != nil {
		return LayoutUnknown, err
	}
	hasFiles := false
	for _, object := range objects {
		if !object.IsDir() {
			if FormatOf(object.Name()) != "" {
				hasFiles = true
			}
			continue
		}
		nested, err := d.hasResources(ctx, object.URL())
		if err != nil {
			return LayoutUnknown, err
		}
		if nested {
			return LayoutNested, nil
		}
	}
	if hasFiles {
		return LayoutFlat, nil
	}
	return LayoutUnknown, fmt.Errorf("%w: %v", ErrNoResources, URL)
}

func (d *Detector) hasResources(ctx context.Context, URL string) (bool, error) {
	objects, err := d.list(ctx, URL)
	if err != nil {
		return false, err
	}
	for _, object := range objects {
		if !object.IsDir() && FormatOf(object.Name()) != "" {
			return true, nil
		}
	}
	return false, nil
}

// list returns direct children of URL, the listed location itself and skipped folders are excluded
func (d *Detector) list(ctx context.Context, URL string) ([]storage.Object, error) {
	objects, err := d.fs.List(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to list %v: %w", URL, err)
	}
	base := strings.TrimRight(url.Path(URL), "/")
	var result []storage.Object
	for _, object := range objects {
		if object.IsDir() && strings.HasSuffix(strings.TrimRight(url.Path(object.URL()), "/"), base) {
			continue
		}
		if object.IsDir() && d.skip[object.Name()] {
			continue
		}
		if strings.HasPrefix(path.Base(object.Name()), ".") && !object.IsDir() {
			continue
		}
		result = append(result, object)
	}
	return result, nil
}
