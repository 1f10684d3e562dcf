package dto

import (
	"github.com/notebooker/backend/models"
)

type NotebookTemplateDto struct {
	Name string `json:"name"`
}

func AdaptNotebookTemplateDto(template models.NotebookTemplate) NotebookTemplateDto {
	return NotebookTemplateDto{Name: template.Name}
}

type TemplateParametersDto struct {
	TemplateName string `json:"template_name"`
	CellSource   string `json:"cell_source"`
}

func AdaptTemplateParametersDto(parameters models.TemplateParameters) TemplateParametersDto {
	return TemplateParametersDto{
		TemplateName: parameters.TemplateName,
		CellSource:   parameters.CellSource,
	}
}
