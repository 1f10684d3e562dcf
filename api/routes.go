package api

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/notebooker/backend/usecases"
)

func addRoutes(r *gin.Engine, uc usecases.Usecases) {
	r.GET("/liveness", handleLivenessProbe(uc))

	r.GET("/templates", handleListTemplates(uc))
	r.GET("/templates/*template_name", handleGetTemplateParameters(uc))

	r.POST("/run_report/*report_name", handleRunReport(uc))
	r.POST("/run_report_json/*report_name", handleRunReportJson(uc))
	r.POST("/rerun_report/:job_id", handleRerunReport(uc))

	r.GET("/results", handleListResults(uc))
	r.GET("/results/:job_id", handleGetResult(uc))
	r.DELETE("/results/:job_id", handleDeleteResult(uc))
	r.DELETE("/reports/*report_name", handleDeleteReportResults(uc))

	r.GET("/schedules", handleListSchedules(uc))
	r.POST("/schedules", handleCreateSchedule(uc))
	r.GET("/schedules/:schedule_id", handleGetSchedule(uc))
	r.DELETE("/schedules/:schedule_id", handleDeleteSchedule(uc))
}

// wildcardParam strips the leading slash gin keeps on *wildcard parameters.
// Template names may contain slashes (subdirectories), so they are captured
// as wildcards.
func wildcardParam(c *gin.Context, name string) string {
	return strings.TrimPrefix(c.Param(name), "/")
}
