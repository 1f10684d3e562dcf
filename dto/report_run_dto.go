package dto

// RunReportForm is the form body of POST /run_report/*report_name.
type RunReportForm struct {
	Overrides      string `form:"overrides"`
	ReportTitle    string `form:"report_title"`
	Mailto         string `form:"mailto"`
	ErrorMailto    string `form:"error_mailto"`
	Mailfrom       string `form:"mailfrom"`
	EmailSubject   string `form:"email_subject"`
	GeneratePdf    bool   `form:"generate_pdf"`
	HideCode       bool   `form:"hide_code"`
	IsSlideshow    bool   `form:"is_slideshow"`
	SchedulerJobId string `form:"scheduler_job_id"`
}

// RunReportJsonBody is the body of POST /run_report_json/*report_name: the
// overrides arrive as an already-decoded JSON object instead of source text.
type RunReportJsonBody struct {
	Overrides      map[string]any `json:"overrides"`
	ReportTitle    string         `json:"report_title"`
	Mailto         string         `json:"mailto"`
	ErrorMailto    string         `json:"error_mailto"`
	Mailfrom       string         `json:"mailfrom"`
	EmailSubject   string         `json:"email_subject"`
	GeneratePdf    bool           `json:"generate_pdf"`
	HideCode       bool           `json:"hide_code"`
	IsSlideshow    bool           `json:"is_slideshow"`
	SchedulerJobId string         `json:"scheduler_job_id"`
}

type RunReportResponse struct {
	Id string `json:"id"`
}
