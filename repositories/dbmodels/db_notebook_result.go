package dbmodels

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/guregu/null/v5"

	"github.com/notebooker/backend/models"
	"github.com/notebooker/backend/utils"
)

type DBNotebookResult struct {
	Id             uuid.UUID       `db:"id"`
	ReportName     string          `db:"report_name"`
	ReportTitle    string          `db:"report_title"`
	Status         string          `db:"status"`
	Overrides      json.RawMessage `db:"overrides"`
	OverridesRaw   string          `db:"overrides_raw"`
	Mailto         null.String     `db:"mailto"`
	ErrorMailto    null.String     `db:"error_mailto"`
	Mailfrom       null.String     `db:"mailfrom"`
	EmailSubject   null.String     `db:"email_subject"`
	GeneratePdf    bool            `db:"generate_pdf"`
	HideCode       bool            `db:"hide_code"`
	IsSlideshow    bool            `db:"is_slideshow"`
	SchedulerJobId null.String     `db:"scheduler_job_id"`
	ErrorInfo      null.String     `db:"error_info"`
	OutputPath     null.String     `db:"output_path"`
	StartedAt      null.Time       `db:"started_at"`
	FinishedAt     null.Time       `db:"finished_at"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

const TABLE_NOTEBOOK_RESULTS = "notebook_results"

var SelectNotebookResultColumn = utils.ColumnList[DBNotebookResult]()

func AdaptNotebookResult(db DBNotebookResult) (models.NotebookResult, error) {
	var overrides map[string]any
	if len(db.Overrides) > 0 {
		if err := json.Unmarshal(db.Overrides, &overrides); err != nil {
			return models.NotebookResult{}, errors.Wrap(err, "can't decode overrides")
		}
	}
	return models.NotebookResult{
		Id:             db.Id,
		ReportName:     db.ReportName,
		ReportTitle:    db.ReportTitle,
		Status:         models.ResultStatusFrom(db.Status),
		Overrides:      overrides,
		OverridesRaw:   db.OverridesRaw,
		Mailto:         db.Mailto.ValueOrZero(),
		ErrorMailto:    db.ErrorMailto.ValueOrZero(),
		Mailfrom:       db.Mailfrom.ValueOrZero(),
		EmailSubject:   db.EmailSubject.ValueOrZero(),
		GeneratePdf:    db.GeneratePdf,
		HideCode:       db.HideCode,
		IsSlideshow:    db.IsSlideshow,
		SchedulerJobId: db.SchedulerJobId.Ptr(),
		ErrorInfo:      db.ErrorInfo.ValueOrZero(),
		OutputPath:     db.OutputPath.ValueOrZero(),
		StartedAt:      db.StartedAt.Ptr(),
		FinishedAt:     db.FinishedAt.Ptr(),
		CreatedAt:      db.CreatedAt,
		UpdatedAt:      db.UpdatedAt,
	}, nil
}
