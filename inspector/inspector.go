package inspector

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/i18nlens/inspector/index"
	"github.com/viant/i18nlens/inspector/repository"
	"github.com/viant/i18nlens/tree"
)

// Inspector builds a symbol index from a resource source
type Inspector interface {
	// InspectSource parses resource source and indexes its keys
	InspectSource(src []byte) (*index.Index, error)
}

// JSONInspector indexes JSON text as written
type JSONInspector struct {
	options []index.Option
}

// InspectSource indexes src, ranges refer to src
func (i *JSONInspector) InspectSource(src []byte) (*index.Index, error) {
	return index.FromSerialized(string(src), i.options...)
}

// YAMLInspector indexes YAML resources through their canonical JSON serialization
type YAMLInspector struct {
	options []index.Option
}

// InspectSource indexes src, ranges refer to index Source, not to src
func (i *YAMLInspector) InspectSource(src []byte) (*index.Index, error) {
	value, err := tree.Parse(src)
	if err != nil {
		return nil, err
	}
	return index.FromValue(value, i.options...)
}

// Factory creates appropriate inspectors based on resource format
type Factory struct {
	fs      afs.Service
	options []index.Option
}

// NewFactory creates a new inspector factory, a nil fs uses default afs service
func NewFactory(fs afs.Service, options ...index.Option) *Factory {
	if fs == nil {
		fs = afs.New()
	}
	return &Factory{fs: fs, options: options}
}

// GetInspector returns an appropriate inspector based on file extension
func (f *Factory) GetInspector(filename string) (Inspector, error) {
	switch format := repository.FormatOf(filename); format {
	case repository.FormatJSON:
		return &JSONInspector{options: f.options}, nil
	case repository.FormatYAML:
		return &YAMLInspector{options: f.options}, nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filename)
	}
}

// InspectFile downloads a resource with afs and indexes it
func (f *Factory) InspectFile(ctx context.Context, URL string) (*index.Index, error) {
	inspector, err := f.GetInspector(URL)
	if err != nil {
		return nil, err
	}
	data, err := f.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download %v: %w", URL, err)
	}
	return inspector.InspectSource(data)
}

// InspectResource indexes a loaded resource value with canonical serialization
func (f *Factory) InspectResource(resource *repository.Resource) (*index.Index, error) {
	return index.FromValue(resource.Value, f.options...)
}
