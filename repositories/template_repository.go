package repositories

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/notebooker/backend/models"
)

// TemplateRepository serves the notebook templates directory. Templates are
// addressed by their path relative to the root, without the .ipynb extension.
type TemplateRepository struct {
	root string
}

func NewTemplateRepository(root string) TemplateRepository {
	return TemplateRepository{root: root}
}

type notebookFile struct {
	Cells []notebookCell `json:"cells"`
}

type notebookCell struct {
	CellType string       `json:"cell_type"`
	Metadata cellMetadata `json:"metadata"`
	Source   []string     `json:"source"`
}

type cellMetadata struct {
	Tags []string `json:"tags"`
}

func (repo TemplateRepository) ListTemplates(ctx context.Context) ([]models.NotebookTemplate, error) {
	var templates []models.NotebookTemplate
	err := filepath.WalkDir(repo.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".ipynb") {
			return nil
		}
		rel, err := filepath.Rel(repo.root, path)
		if err != nil {
			return err
		}
		templates = append(templates, models.NotebookTemplate{
			Name: strings.TrimSuffix(filepath.ToSlash(rel), ".ipynb"),
			Path: path,
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't walk templates directory")
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].Name < templates[j].Name })
	return templates, nil
}

func (repo TemplateRepository) GetTemplate(ctx context.Context, name string) (models.NotebookTemplate, error) {
	path, err := repo.templatePath(name)
	if err != nil {
		return models.NotebookTemplate{}, err
	}
	if _, err := os.Stat(path); err != nil {
		return models.NotebookTemplate{}, errors.Wrapf(models.ErrUnknownTemplate, "template %q", name)
	}
	return models.NotebookTemplate{Name: name, Path: path}, nil
}

// GetTemplateParameters returns the source of the notebook's
// "parameters"-tagged cell: the defaults a run's overrides replace.
func (repo TemplateRepository) GetTemplateParameters(
	ctx context.Context,
	name string,
) (models.TemplateParameters, error) {
	template, err := repo.GetTemplate(ctx, name)
	if err != nil {
		return models.TemplateParameters{}, err
	}
	raw, err := os.ReadFile(template.Path)
	if err != nil {
		return models.TemplateParameters{}, errors.Wrap(err, "can't read template")
	}
	var notebook notebookFile
	if err := json.Unmarshal(raw, &notebook); err != nil {
		return models.TemplateParameters{}, errors.Wrapf(err, "template %q is not a valid notebook", name)
	}
	for _, cell := range notebook.Cells {
		if cell.CellType != "code" {
			continue
		}
		for _, tag := range cell.Metadata.Tags {
			if tag == "parameters" {
				return models.TemplateParameters{
					TemplateName: name,
					CellSource:   strings.Join(cell.Source, ""),
				}, nil
			}
		}
	}
	return models.TemplateParameters{TemplateName: name}, nil
}

// templatePath rejects names that would escape the templates root.
func (repo TemplateRepository) templatePath(name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) ||
		filepath.IsAbs(cleaned) {
		return "", errors.Wrapf(models.BadParameterError, "invalid template name %q", name)
	}
	return filepath.Join(repo.root, cleaned+".ipynb"), nil
}
