package stock

import (
	"database/sql"

	"go.uber.org/zap"

	"stockroom/internal/infrastructure/mysql"
	productrepo "stockroom/internal/product/repository"
	"stockroom/internal/stock/controller"
	"stockroom/internal/stock/repository"
	"stockroom/internal/stock/service"
)

func NewModule(db *sql.DB, uow *mysql.UnitOfWork, logger *zap.Logger) *controller.StockController {
	productRepo := productrepo.NewMySQLRepository(db)
	movementRepo := repository.NewMySQLRepository(db)
	svc := service.NewStockService(uow, productRepo, movementRepo, logger)
	return controller.NewStockController(svc, logger)
}
