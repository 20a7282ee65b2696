package transaction

import (
	"database/sql"

	"go.uber.org/zap"

	catalogrepo "stockroom/internal/catalog/repository"
	"stockroom/internal/infrastructure/mysql"
	productrepo "stockroom/internal/product/repository"
	stockrepo "stockroom/internal/stock/repository"
	"stockroom/internal/transaction/controller"
	"stockroom/internal/transaction/repository"
	"stockroom/internal/transaction/service"
	"stockroom/internal/transaction/usecase"
)

func NewModule(db *sql.DB, uow *mysql.UnitOfWork, logger *zap.Logger) *controller.TransactionController {
	svc := service.NewTransactionService(
		uow,
		productrepo.NewMySQLRepository(db),
		stockrepo.NewMySQLRepository(db),
		repository.NewMySQLTransactionRepository(db),
		repository.NewMySQLItemRepository(db),
		logger,
	)

	useCase := usecase.NewTransactionUseCase(
		svc,
		catalogrepo.NewMySQLCustomerRepository(db),
		catalogrepo.NewMySQLSupplierRepository(db),
		logger,
	)

	return controller.NewTransactionController(useCase, logger)
}
