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

type DBReportSchedule struct {
	Id             uuid.UUID       `db:"id"`
	ReportName     string          `db:"report_name"`
	ReportTitle    string          `db:"report_title"`
	CronExpression string          `db:"cron_expression"`
	Overrides      json.RawMessage `db:"overrides"`
	OverridesRaw   string          `db:"overrides_raw"`
	Mailto         null.String     `db:"mailto"`
	NextRunAt      time.Time       `db:"next_run_at"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

const TABLE_REPORT_SCHEDULES = "report_schedules"

var SelectReportScheduleColumn = utils.ColumnList[DBReportSchedule]()

func AdaptReportSchedule(db DBReportSchedule) (models.ReportSchedule, error) {
	var overrides map[string]any
	if len(db.Overrides) > 0 {
		if err := json.Unmarshal(db.Overrides, &overrides); err != nil {
			return models.ReportSchedule{}, errors.Wrap(err, "can't decode overrides")
		}
	}
	return models.ReportSchedule{
		Id:             db.Id,
		ReportName:     db.ReportName,
		ReportTitle:    db.ReportTitle,
		CronExpression: db.CronExpression,
		Overrides:      overrides,
		OverridesRaw:   db.OverridesRaw,
		Mailto:         db.Mailto.ValueOrZero(),
		NextRunAt:      db.NextRunAt,
		CreatedAt:      db.CreatedAt,
		UpdatedAt:      db.UpdatedAt,
	}, nil
}
