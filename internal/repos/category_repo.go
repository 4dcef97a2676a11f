package repos

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"projectpan/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// CategoryUpdate is a partial field set; nil fields are left untouched.
type CategoryUpdate struct {
	Name          *string   `json:"name"`
	Color         *string   `json:"color"`
	Subcategories *[]string `json:"subcategories"`
}

func decodeSubcategories(c *domain.Category) {
	c.Subcategories = []string{}
	if c.SubcategoriesJSON != "" {
		_ = json.Unmarshal([]byte(c.SubcategoriesJSON), &c.Subcategories)
	}
}

func (r *CategoryRepo) List() ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.Select(&out, `
	  SELECT id, name, color, subcategories, created_at
	  FROM categories
	  ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	for i := range out {
		decodeSubcategories(&out[i])
	}
	return out, nil
}

func (r *CategoryRepo) Get(id int64) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `
	  SELECT id, name, color, subcategories, created_at
	  FROM categories
	  WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return c, domain.ErrNotFound
	}
	if err != nil {
		return c, err
	}
	decodeSubcategories(&c)
	return c, nil
}

func (r *CategoryRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM categories`)
	return n, err
}

func (r *CategoryRepo) Create(name, color string, subcategories []string) (domain.Category, error) {
	if subcategories == nil {
		subcategories = []string{}
	}
	subs, err := json.Marshal(subcategories)
	if err != nil {
		return domain.Category{}, err
	}
	res, err := r.db.Exec(`INSERT INTO categories(name, color, subcategories, created_at) VALUES(?,?,?,?)`,
		name, color, string(subs), Timestamp(time.Now()))
	if err != nil {
		return domain.Category{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Category{}, err
	}
	return r.Get(id)
}

func (r *CategoryRepo) Update(id int64, upd CategoryUpdate) (domain.Category, error) {
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
	if upd.Color != nil {
		add(`color = ?`, *upd.Color)
	}
	if upd.Subcategories != nil {
		subs, err := json.Marshal(*upd.Subcategories)
		if err != nil {
			return domain.Category{}, err
		}
		add(`subcategories = ?`, string(subs))
	}
	if set == "" {
		return r.Get(id)
	}

	args = append(args, id)
	res, err := r.db.Exec(`UPDATE categories SET `+set+` WHERE id = ?`, args...)
	if err != nil {
		return domain.Category{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Category{}, domain.ErrNotFound
	}
	return r.Get(id)
}

// Delete removes a category and cascades to its products and their usage
// logs. The cascade is done explicitly inside one transaction rather than
// leaning on the pragma alone.
func (r *CategoryRepo) Delete(id int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM usage_logs WHERE product_id IN (SELECT id FROM products WHERE category_id = ?)`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM products WHERE category_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM categories WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}
