package repository_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/i18nlens/inspector/repository"
	"github.com/viant/i18nlens/tree"
)

func upload(t *testing.T, fs afs.Service, files map[string]string) {
	for URL, content := range files {
		require.NoError(t, fs.Upload(context.Background(), URL, file.DefaultFileOsMode, bytes.NewReader([]byte(content))))
	}
}

func TestDetector_Detect(t *testing.T) {
	tests := []struct {
		description string
		baseURL     string
		files       map[string]string
		expect      repository.Layout
		expectErr   bool
	}{
		{
			description: "flat layout",
			baseURL:     "mem://localhost/detect/flat",
			files: map[string]string{
				"mem://localhost/detect/flat/en.json": `{"a": "b"}`,
				"mem://localhost/detect/flat/de.json": `{"a": "c"}`,
			},
			expect: repository.LayoutFlat,
		},
		{
			description: "nested layout",
			baseURL:     "mem://localhost/detect/nested",
			files: map[string]string{
				"mem://localhost/detect/nested/en/common.json": `{"a": "b"}`,
				"mem://localhost/detect/nested/de/common.yaml": "a: c\n",
			},
			expect: repository.LayoutNested,
		},
		{
			description: "no resources",
			baseURL:     "mem://localhost/detect/none",
			files: map[string]string{
				"mem://localhost/detect/none/readme.md": "# none",
			},
			expectErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			fs := afs.New()
			upload(t, fs, tc.files)
			layout, err := repository.NewDetector(fs).Detect(context.Background(), tc.baseURL)
			if tc.expectErr {
				assert.ErrorIs(t, err, repository.ErrNoResources)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expect, layout)
		})
	}
}

func TestRepository_Load(t *testing.T) {
	fs := afs.New()
	upload(t, fs, map[string]string{
		"mem://localhost/load/en/common.json": "{\n  \"title\": \"Home\",\n  \"menu\": {\n    \"open\": \"Open\"\n  }\n}",
		"mem://localhost/load/en/errors.json": `{"notFound": "Not found"}`,
		"mem://localhost/load/de/common.yaml": "title: Start\nmenu:\n  open: Öffnen\n",
	})
	repo := repository.New("mem://localhost/load", repository.WithFS(fs))
	resources, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, repository.LayoutNested, repo.Layout)
	require.Len(t, resources, 3)
	assert.Equal(t, "de", resources[0].Language)
	assert.Equal(t, repository.FormatYAML, resources[0].Format)
	assert.Equal(t, []string{"common", "errors"}, repository.Namespaces(resources[1:]))

	values := repository.Values(resources, "common")
	require.Len(t, values, 2)
	open, ok := tree.Get(values["de"], []string{"menu", "open"})
	require.True(t, ok)
	assert.Equal(t, "Öffnen", open)
	assert.Equal(t, []string{"title", "menu"}, tree.Keys(values["en"]))
}

func TestRepository_Save(t *testing.T) {
	fs := afs.New()
	upload(t, fs, map[string]string{
		"mem://localhost/save/en.json": `{"z": "1", "a": "2"}`,
	})
	ctx := context.Background()
	repo := repository.New("mem://localhost/save", repository.WithFS(fs), repository.WithNamespace("app"))
	resources, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "app", resources[0].Namespace)

	resources[0].Value = tree.Set(resources[0].Value, []string{"a"}, "changed")
	require.NoError(t, repo.Save(ctx, resources[0]))
	data, err := fs.DownloadWithURL(ctx, "mem://localhost/save/en.json")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"z\": \"1\",\n  \"a\": \"changed\"\n}\n", string(data))

	created := &repository.Resource{Language: "fr", Value: tree.NewRecord("z", "un")}
	require.NoError(t, repo.Save(ctx, created))
	assert.Equal(t, "mem://localhost/save/fr.json", created.URL)
	resources, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, resources, 2)
}

func TestRepository_InvalidResource(t *testing.T) {
	fs := afs.New()
	upload(t, fs, map[string]string{
		"mem://localhost/invalid/en.json": `{"a": `,
	})
	_, err := repository.New("mem://localhost/invalid", repository.WithFS(fs)).Load(context.Background())
	assert.ErrorIs(t, err, tree.ErrInvalidJSON)
}
