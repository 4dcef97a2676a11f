package repos

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"projectpan/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productColumns = `
  id, name, brand, category_id, subcategory, status, size, size_unit,
  purchase_date, date_opened, date_finished, rating, review, created_at, last_used`

// ProductFilter narrows List; zero values mean "no filter".
type ProductFilter struct {
	Status     string
	CategoryID int64
}

// ProductCreate carries the fields accepted on creation.
type ProductCreate struct {
	Name         string   `json:"name"`
	Brand        *string  `json:"brand"`
	CategoryID   *int64   `json:"categoryId"`
	Subcategory  *string  `json:"subcategory"`
	Status       string   `json:"status"`
	Size         *float64 `json:"size"`
	SizeUnit     *string  `json:"sizeUnit"`
	PurchaseDate *string  `json:"purchaseDate"`
	DateOpened   *string  `json:"dateOpened"`
}

// ProductUpdate is a partial field set merged into the stored record;
// nil fields are left untouched.
type ProductUpdate struct {
	Name         *string  `json:"name"`
	Brand        *string  `json:"brand"`
	CategoryID   *int64   `json:"categoryId"`
	Subcategory  *string  `json:"subcategory"`
	Status       *string  `json:"status"`
	Size         *float64 `json:"size"`
	SizeUnit     *string  `json:"sizeUnit"`
	PurchaseDate *string  `json:"purchaseDate"`
	DateOpened   *string  `json:"dateOpened"`
	DateFinished *string  `json:"dateFinished"`
	Rating       *int     `json:"rating"`
	Review       *string  `json:"review"`
	LastUsed     *string  `json:"lastUsed"`
}

func (r *ProductRepo) List(f ProductFilter) ([]domain.Product, error) {
	where := `1=1`
	args := []any{}
	if f.Status != "" {
		where += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.CategoryID != 0 {
		where += ` AND category_id = ?`
		args = append(args, f.CategoryID)
	}

	out := []domain.Product{}
	err := r.db.Select(&out, `SELECT `+productColumns+` FROM products WHERE `+where+` ORDER BY created_at DESC`, args...)
	return out, err
}

func (r *ProductRepo) Get(id int64) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return p, domain.ErrNotFound
	}
	return p, err
}

func (r *ProductRepo) Create(in ProductCreate) (domain.Product, error) {
	status := in.Status
	if status == "" {
		status = domain.StatusInStock
	}
	res, err := r.db.Exec(`
	  INSERT INTO products(name, brand, category_id, subcategory, status, size, size_unit,
	    purchase_date, date_opened, created_at)
	  VALUES(?,?,?,?,?,?,?,?,?,?)
	`, in.Name, in.Brand, in.CategoryID, in.Subcategory, status, in.Size, in.SizeUnit,
		in.PurchaseDate, in.DateOpened, Timestamp(time.Now()))
	if err != nil {
		return domain.Product{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Product{}, err
	}
	return r.Get(id)
}

func (r *ProductRepo) Update(id int64, upd ProductUpdate) (domain.Product, error) {
	set := ""
	args := []any{}
	add := func(clause string, v any) {
		if set != "" {
			set += ", "
		}
		set += clause
		args = append(args, v)
	}
	if upd.Name != nil {
		add(`name = ?`, *upd.Name)
	}
	if upd.Brand != nil {
		add(`brand = ?`, *upd.Brand)
	}
	if upd.CategoryID != nil {
		add(`category_id = ?`, *upd.CategoryID)
	}
	if upd.Subcategory != nil {
		add(`subcategory = ?`, *upd.Subcategory)
	}
	if upd.Status != nil {
		add(`status = ?`, *upd.Status)
	}
	if upd.Size != nil {
		add(`size = ?`, *upd.Size)
	}
	if upd.SizeUnit != nil {
		add(`size_unit = ?`, *upd.SizeUnit)
	}
	if upd.PurchaseDate != nil {
		add(`purchase_date = ?`, *upd.PurchaseDate)
	}
	if upd.DateOpened != nil {
		add(`date_opened = ?`, *upd.DateOpened)
	}
	if upd.DateFinished != nil {
		add(`date_finished = ?`, *upd.DateFinished)
	}
	if upd.Rating != nil {
		add(`rating = ?`, *upd.Rating)
	}
	if upd.Review != nil {
		add(`review = ?`, *upd.Review)
	}
	if upd.LastUsed != nil {
		add(`last_used = ?`, *upd.LastUsed)
	}
	if set == "" {
		return r.Get(id)
	}

	args = append(args, id)
	res, err := r.db.Exec(`UPDATE products SET `+set+` WHERE id = ?`, args...)
	if err != nil {
		return domain.Product{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Product{}, domain.ErrNotFound
	}
	return r.Get(id)
}

// Delete removes a product and its usage logs in one transaction.
func (r *ProductRepo) Delete(id int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM usage_logs WHERE product_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM products WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// CountByStatus powers the home page summary.
func (r *ProductRepo) CountByStatus() (map[string]int, error) {
	rows := []struct {
		Status string `db:"status"`
		N      int    `db:"n"`
	}{}
	if err := r.db.Select(&rows, `SELECT status, COUNT(*) AS n FROM products GROUP BY status`); err != nil {
		return nil, err
	}
	out := map[string]int{}
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}
