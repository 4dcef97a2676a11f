package services

import (
	"time"

	"projectpan/internal/domain"
	"projectpan/internal/repos"
	"projectpan/internal/validate"
)

// CatalogService is the CRUD layer over categories and products. The
// status-transition stamping lives here, one layer above the dumb
// merge-and-persist repos.
type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

func (s *CatalogService) ListCategories() ([]domain.Category, error) { return s.Cats.List() }

func (s *CatalogService) GetCategory(id int64) (domain.Category, error) { return s.Cats.Get(id) }

// CreateCategory auto-assigns a palette color when none is given,
// cycling by the current category count.
func (s *CatalogService) CreateCategory(name, color string, subcategories []string) (domain.Category, error) {
	if color == "" {
		n, err := s.Cats.Count()
		if err != nil {
			return domain.Category{}, err
		}
		color = domain.CategoryColors[n%len(domain.CategoryColors)]
	}
	return s.Cats.Create(name, color, subcategories)
}

func (s *CatalogService) UpdateCategory(id int64, upd repos.CategoryUpdate) (domain.Category, error) {
	return s.Cats.Update(id, upd)
}

func (s *CatalogService) DeleteCategory(id int64) error { return s.Cats.Delete(id) }

func (s *CatalogService) ListProducts(f repos.ProductFilter) ([]domain.Product, error) {
	return s.Prods.List(f)
}

func (s *CatalogService) GetProduct(id int64) (domain.Product, error) { return s.Prods.Get(id) }

func (s *CatalogService) CreateProduct(in repos.ProductCreate) (domain.Product, error) {
	if in.Status != "" && !validate.Status(in.Status) {
		return domain.Product{}, domain.ErrInvalidStatus
	}
	return s.Prods.Create(in)
}

func (s *CatalogService) UpdateProduct(id int64, upd repos.ProductUpdate) (domain.Product, error) {
	if upd.Status != nil && !validate.Status(*upd.Status) {
		return domain.Product{}, domain.ErrInvalidStatus
	}
	return s.Prods.Update(id, upd)
}

func (s *CatalogService) DeleteProduct(id int64) error { return s.Prods.Delete(id) }

// SetStatus moves a product through the lifecycle and applies the
// stamping side effects: entering in_use stamps date_opened, entering
// finished stamps date_finished and persists rating/review when present.
func (s *CatalogService) SetStatus(id int64, status string, rating *int, review *string, now time.Time) (domain.Product, error) {
	if !validate.Status(status) {
		return domain.Product{}, domain.ErrInvalidStatus
	}

	upd := repos.ProductUpdate{Status: &status}
	switch status {
	case domain.StatusInUse:
		opened := repos.Timestamp(now)
		upd.DateOpened = &opened
	case domain.StatusFinished:
		finished := repos.Timestamp(now)
		upd.DateFinished = &finished
		if rating != nil {
			if !validate.Rating(*rating) {
				return domain.Product{}, domain.ErrInvalidRating
			}
			upd.Rating = rating
		}
		if review != nil {
			upd.Review = review
		}
	}
	return s.Prods.Update(id, upd)
}
