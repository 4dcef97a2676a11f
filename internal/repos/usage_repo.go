package repos

import (
	"time"

	"github.com/jmoiron/sqlx"

	"projectpan/internal/domain"
)

type UsageRepo struct{ db *sqlx.DB }

func NewUsageRepo(db *sqlx.DB) *UsageRepo { return &UsageRepo{db: db} }

func (r *UsageRepo) ListByProduct(productID int64) ([]domain.UsageLog, error) {
	out := []domain.UsageLog{}
	err := r.db.Select(&out, `SELECT id, product_id, date FROM usage_logs WHERE product_id = ? ORDER BY date`, productID)
	return out, err
}

// Log appends one usage event and stamps the parent product's last_used,
// both inside a single transaction.
func (r *UsageRepo) Log(productID int64, at time.Time) error {
	ts := Timestamp(at)

	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`UPDATE products SET last_used = ? WHERE id = ?`, ts, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	if _, err := tx.Exec(`INSERT INTO usage_logs(product_id, date) VALUES(?,?)`, productID, ts); err != nil {
		return err
	}
	return tx.Commit()
}
