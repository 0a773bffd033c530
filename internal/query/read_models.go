package query

// Read models are re-exported so HTTP handlers depend on query alone
import "github.com/example/herbal-backoffice/internal/readmodel"

type CategoryReadModel = readmodel.CategoryReadModel
type CustomerReadModel = readmodel.CustomerReadModel
type DiscountReadModel = readmodel.DiscountReadModel
type EmployeeReadModel = readmodel.EmployeeReadModel
type ProductReadModel = readmodel.ProductReadModel
type OrderItemReadModel = readmodel.OrderItemReadModel
type OrderReadModel = readmodel.OrderReadModel
