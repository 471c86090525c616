package usecase

import (
	"context"
	"strings"

	"paintshop/internal/domain/model"
	repo "paintshop/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	productRepo repo.ProductRepository
	clock       Clock
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository, clock Clock) *ProductUsecase {
	return &ProductUsecase{productRepo: productRepo, clock: clock}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page     int
	Limit    int
	Q        string
	Category string
	Sort     string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// 作成・更新の入力
type ProductInput struct {
	Name          string
	Description   string
	Category      string
	Price         decimal.Decimal
	StockQuantity decimal.Decimal
	Unit          string
	ImageURL      string
}

func (u *ProductUsecase) List(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page == 0 {
		in.Page = 1
	}
	if in.Limit == 0 {
		in.Limit = 20
	}
	if in.Page < 1 {
		return ProductListOutput{}, invalidInput("invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, invalidInput("invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, invalidInput("q too long")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc":
	default:
		return ProductListOutput{}, invalidInput("invalid sort")
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        strings.TrimSpace(in.Q),
		Category: strings.TrimSpace(in.Category),
		Sort:     in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, storeError(err, "products")
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) Get(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, invalidInput("invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		return model.Product{}, storeError(err, "product")
	}
	return p, nil
}

func (u *ProductUsecase) Create(ctx context.Context, p Principal, in ProductInput) (model.Product, error) {
	if err := requireAdmin(p); err != nil {
		return model.Product{}, err
	}
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	now := u.clock.Now()
	created, err := u.productRepo.Create(ctx, model.Product{
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Category:      strings.TrimSpace(in.Category),
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		Unit:          strings.TrimSpace(in.Unit),
		ImageURL:      strings.TrimSpace(in.ImageURL),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return model.Product{}, storeError(err, "product")
	}
	return created, nil
}

func (u *ProductUsecase) Update(ctx context.Context, p Principal, productID int64, in ProductInput) (model.Product, error) {
	if err := requireAdmin(p); err != nil {
		return model.Product{}, err
	}
	if productID <= 0 {
		return model.Product{}, invalidInput("invalid product id")
	}
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	err := u.productRepo.Update(ctx, model.Product{
		ID:            productID,
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Category:      strings.TrimSpace(in.Category),
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		Unit:          strings.TrimSpace(in.Unit),
		ImageURL:      strings.TrimSpace(in.ImageURL),
	})
	if err != nil {
		return model.Product{}, storeError(err, "product")
	}

	return u.Get(ctx, productID)
}

// 論理削除（過去の注文明細は残る）
func (u *ProductUsecase) Delete(ctx context.Context, p Principal, productID int64) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	if productID <= 0 {
		return invalidInput("invalid product id")
	}

	return storeError(u.productRepo.SoftDelete(ctx, productID), "product")
}

func validateProductInput(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return invalidInput("name required")
	}
	if in.Price.IsNegative() {
		return invalidInput("price must be >= 0")
	}
	if !fitsScale(in.Price, moneyScale) {
		return invalidInput("price must have at most 2 decimal places")
	}
	if in.StockQuantity.IsNegative() {
		return invalidInput("stock_quantity must be >= 0")
	}
	if !fitsScale(in.StockQuantity, quantityScale) {
		return invalidInput("stock_quantity must have at most 3 decimal places")
	}
	return nil
}
