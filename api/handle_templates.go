package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/notebooker/backend/dto"
	"github.com/notebooker/backend/pure_utils"
	"github.com/notebooker/backend/usecases"
)

func handleListTemplates(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		usecase := uc.NewTemplatesUsecase()
		templates, err := usecase.ListTemplates(c.Request.Context())
		if presentError(c, err) {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"templates": pure_utils.Map(templates, dto.AdaptNotebookTemplateDto),
		})
	}
}

func handleGetTemplateParameters(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		templateName := strings.TrimSuffix(wildcardParam(c, "template_name"), "/parameters")

		usecase := uc.NewTemplatesUsecase()
		parameters, err := usecase.GetTemplateParameters(c.Request.Context(), templateName)
		if presentError(c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptTemplateParametersDto(parameters))
	}
}
