package product

import (
	"database/sql"

	"go.uber.org/zap"

	"stockroom/internal/infrastructure/mysql"
	"stockroom/internal/product/controller"
	"stockroom/internal/product/repository"
	"stockroom/internal/product/service"
	stockrepo "stockroom/internal/stock/repository"
)

func NewModule(db *sql.DB, uow *mysql.UnitOfWork, logger *zap.Logger) *controller.ProductController {
	repo := repository.NewMySQLRepository(db)
	movementRepo := stockrepo.NewMySQLRepository(db)
	svc := service.NewProductService(uow, repo, movementRepo, logger)
	return controller.NewProductController(svc, logger)
}
