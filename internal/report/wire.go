package report

import (
	"database/sql"

	"go.uber.org/zap"

	"stockroom/internal/report/controller"
	"stockroom/internal/report/repository"
	"stockroom/internal/report/service"
)

func NewModule(db *sql.DB, logger *zap.Logger) *controller.ReportController {
	repo := repository.NewMySQLReportRepository(db)
	svc := service.NewReportService(repo, logger)
	return controller.NewReportController(svc, logger)
}
