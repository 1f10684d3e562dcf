package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notebooker/backend/models"
)

const sampleNotebook = `{
  "cells": [
    {
      "cell_type": "markdown",
      "metadata": {},
      "source": ["# Daily sales report"]
    },
    {
      "cell_type": "code",
      "metadata": {"tags": ["parameters"]},
      "source": ["n_days = 7\n", "region = 'emea'\n"]
    },
    {
      "cell_type": "code",
      "metadata": {},
      "source": ["print(n_days)"]
    }
  ]
}`

func writeTemplate(t *testing.T, root, name string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name)+".ipynb")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(sampleNotebook), 0o644))
}

func TestListTemplates(t *testing.T) {
	root := t.TempDir()
	writeTemplate(t, root, "sales/daily")
	writeTemplate(t, root, "sales/weekly")
	writeTemplate(t, root, "adhoc")
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("not a notebook"), 0o644))

	repo := NewTemplateRepository(root)
	templates, err := repo.ListTemplates(context.Background())

	require.NoError(t, err)
	names := make([]string, len(templates))
	for i, template := range templates {
		names[i] = template.Name
	}
	assert.Equal(t, []string{"adhoc", "sales/daily", "sales/weekly"}, names)
}

func TestGetTemplate(t *testing.T) {
	root := t.TempDir()
	writeTemplate(t, root, "sales/daily")
	repo := NewTemplateRepository(root)

	template, err := repo.GetTemplate(context.Background(), "sales/daily")
	require.NoError(t, err)
	assert.Equal(t, "sales/daily", template.Name)

	_, err = repo.GetTemplate(context.Background(), "no/such/template")
	assert.ErrorIs(t, err, models.ErrUnknownTemplate)
}

func TestGetTemplateRejectsPathEscape(t *testing.T) {
	repo := NewTemplateRepository(t.TempDir())

	for _, name := range []string{"../etc/passwd", "..", "/abs/path"} {
		_, err := repo.GetTemplate(context.Background(), name)
		assert.ErrorIs(t, err, models.BadParameterError, name)
	}
}

func TestGetTemplateParameters(t *testing.T) {
	root := t.TempDir()
	writeTemplate(t, root, "sales/daily")
	repo := NewTemplateRepository(root)

	parameters, err := repo.GetTemplateParameters(context.Background(), "sales/daily")
	require.NoError(t, err)
	assert.Equal(t, "sales/daily", parameters.TemplateName)
	assert.Equal(t, "n_days = 7\nregion = 'emea'\n", parameters.CellSource)
}

func TestGetTemplateParametersWithoutParametersCell(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "plain.ipynb")
	require.NoError(t, os.WriteFile(path, []byte(`{"cells": []}`), 0o644))
	repo := NewTemplateRepository(root)

	parameters, err := repo.GetTemplateParameters(context.Background(), "plain")
	require.NoError(t, err)
	assert.Empty(t, parameters.CellSource)
}
