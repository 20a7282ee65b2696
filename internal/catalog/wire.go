package catalog

import (
	"database/sql"

	"go.uber.org/zap"

	"stockroom/internal/catalog/controller"
	"stockroom/internal/catalog/repository"
	"stockroom/internal/catalog/service"
	"stockroom/internal/domain"
	"stockroom/internal/dto"
)

type Module struct {
	Categories *controller.CatalogController[domain.Category, dto.CategoryRequest, dto.CategoryDTO]
	Suppliers  *controller.CatalogController[domain.Supplier, dto.SupplierRequest, dto.SupplierDTO]
	Customers  *controller.CatalogController[domain.Customer, dto.CustomerRequest, dto.CustomerDTO]
}

func NewModule(db *sql.DB, logger *zap.Logger) *Module {
	categories := service.NewCatalogService("category",
		service.Store[domain.Category](repository.NewMySQLCategoryRepository(db)),
		dto.CategoryRequest.Category,
		func(c domain.Category, id int64) domain.Category { c.ID = id; return c },
		logger,
	)
	suppliers := service.NewCatalogService("supplier",
		service.Store[domain.Supplier](repository.NewMySQLSupplierRepository(db)),
		dto.SupplierRequest.Supplier,
		func(s domain.Supplier, id int64) domain.Supplier { s.ID = id; return s },
		logger,
	)
	customers := service.NewCatalogService("customer",
		service.Store[domain.Customer](repository.NewMySQLCustomerRepository(db)),
		dto.CustomerRequest.Customer,
		func(c domain.Customer, id int64) domain.Customer { c.ID = id; return c },
		logger,
	)

	return &Module{
		Categories: controller.NewCatalogController[domain.Category, dto.CategoryRequest, dto.CategoryDTO](
			"/api/v1/categories", categories, dto.NewCategoryDTO, logger),
		Suppliers: controller.NewCatalogController[domain.Supplier, dto.SupplierRequest, dto.SupplierDTO](
			"/api/v1/suppliers", suppliers, dto.NewSupplierDTO, logger),
		Customers: controller.NewCatalogController[domain.Customer, dto.CustomerRequest, dto.CustomerDTO](
			"/api/v1/customers", customers, dto.NewCustomerDTO, logger),
	}
}
