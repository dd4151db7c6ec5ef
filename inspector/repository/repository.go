package repository

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// DefaultNamespace is used for flat layouts
const DefaultNamespace = "translation"

// Repository loads and saves locale resources stored with afs
type Repository struct {
	URL       string
	Layout    Layout
	Namespace string
	fs        afs.Service
	detector  *Detector
	logger    zerolog.Logger
}

// Option configures a repository
type Option func(*Repository)

// WithFS sets storage service
func WithFS(fs afs.Service) Option {
	return func(r *Repository) {
		r.fs = fs
	}
}

// WithLayout skips layout detection
func WithLayout(layout Layout) Option {
	return func(r *Repository) {
		r.Layout = layout
	}
}

// WithNamespace sets namespace of flat layout files
func WithNamespace(namespace string) Option {
	return func(r *Repository) {
		if namespace != "" {
			r.Namespace = namespace
		}
	}
}

// WithLogger sets a logger
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// New creates a repository for locale files under URL
func New(URL string, opts ...Option) *Repository {
	ret := &Repository{URL: URL, Namespace: DefaultNamespace, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	ret.detector = NewDetector(ret.fs)
	return ret
}

// Load reads all resources, languages and namespaces are sorted by name
func (r *Repository) Load(ctx context.Context) ([]*Resource, error) {
	if r.Layout == LayoutUnknown {
		layout, err := r.detector.Detect(ctx, r.URL)
		if err != nil {
			return nil, err
		}
		r.Layout = layout
		r.logger.Debug().Str("url", r.URL).Str("layout", string(layout)).Msg("detected locale layout")
	}
	objects, err := r.detector.list(ctx, r.URL)
	if err != nil {
		return nil, err
	}
	var result []*Resource
	for _, object := range objects {
		switch {
		case r.Layout == LayoutFlat && !object.IsDir():
			format := FormatOf(object.Name())
			if format == "" {
				continue
			}
			resource, err := r.load(ctx, object.URL(), baseName(object.Name()), r.Namespace, format)
			if err != nil {
				return nil, err
			}
			result = append(result, resource)
		case r.Layout == LayoutNested && object.IsDir():
			files, err := r.detector.list(ctx, object.URL())
			if err != nil {
				return nil, err
			}
			for _, candidate := range files {
				format := FormatOf(candidate.Name())
				if candidate.IsDir() || format == "" {
					continue
				}
				resource, err := r.load(ctx, candidate.URL(), object.Name(), baseName(candidate.Name()), format)
				if err != nil {
					return nil, err
				}
				result = append(result, resource)
			}
		}
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoResources, r.URL)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Language != result[j].Language {
			return result[i].Language < result[j].Language
		}
		return result[i].Namespace < result[j].Namespace
	})
	r.logger.Info().Str("url", r.URL).Int("resources", len(result)).Msg("loaded locale resources")
	return result, nil
}

func (r *Repository) load(ctx context.Context, URL, language, namespace, format string) (*Resource, error) {
	data, err := r.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download %v: %w", URL, err)
	}
	value, err := Decode(format, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %v: %w", URL, err)
	}
	return &Resource{Language: language, Namespace: namespace, URL: URL, Format: format, Value: value}, nil
}

// Location returns URL of a language and namespace file for the repository layout
func (r *Repository) Location(language, namespace, format string) string {
	if format == "" {
		format = FormatJSON
	}
	if r.Layout == LayoutNested {
		return url.Join(r.URL, language, namespace+Extension(format))
	}
	return url.Join(r.URL, language+Extension(format))
}

// Save writes resource value, resources without URL are stored at their layout location
func (r *Repository) Save(ctx context.Context, resource *Resource) error {
	if resource.Format == "" {
		resource.Format = FormatJSON
	}
	if resource.Namespace == "" {
		resource.Namespace = r.Namespace
	}
	if resource.URL == "" {
		resource.URL = r.Location(resource.Language, resource.Namespace, resource.Format)
	}
	data, err := Encode(resource.Format, resource.Value)
	if err != nil {
		return fmt.Errorf("failed to encode %v: %w", resource.URL, err)
	}
	if resource.Format == FormatJSON {
		data = append(data, '\n')
	}
	if err = r.fs.Upload(ctx, resource.URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to upload %v: %w", resource.URL, err)
	}
	r.logger.Debug().Str("url", resource.URL).Str("language", resource.Language).Msg("saved locale resource")
	return nil
}
