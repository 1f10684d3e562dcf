package usecases

import (
	"context"

	"github.com/notebooker/backend/models"
	"github.com/notebooker/backend/repositories"
)

type TemplatesUsecase struct {
	templateRepository repositories.TemplateRepository
}

func (uc TemplatesUsecase) ListTemplates(ctx context.Context) ([]models.NotebookTemplate, error) {
	return uc.templateRepository.ListTemplates(ctx)
}

func (uc TemplatesUsecase) GetTemplateParameters(
	ctx context.Context,
	templateName string,
) (models.TemplateParameters, error) {
	return uc.templateRepository.GetTemplateParameters(ctx, templateName)
}
