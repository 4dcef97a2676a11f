package repos

import (
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"projectpan/internal/domain"
)

// BackupRepo reads and replaces the whole database for export/restore.
type BackupRepo struct{ db *sqlx.DB }

func NewBackupRepo(db *sqlx.DB) *BackupRepo { return &BackupRepo{db: db} }

func (r *BackupRepo) Export() (domain.BackupData, error) {
	data := domain.BackupData{
		Categories: []domain.Category{},
		Products:   []domain.Product{},
		UsageLogs:  []domain.UsageLog{},
	}

	if err := r.db.Select(&data.Categories, `SELECT id, name, color, subcategories, created_at FROM categories ORDER BY id`); err != nil {
		return data, err
	}
	for i := range data.Categories {
		decodeSubcategories(&data.Categories[i])
	}
	if err := r.db.Select(&data.Products, `SELECT `+productColumns+` FROM products ORDER BY id`); err != nil {
		return data, err
	}
	if err := r.db.Select(&data.UsageLogs, `SELECT id, product_id, date FROM usage_logs ORDER BY id`); err != nil {
		return data, err
	}
	return data, nil
}

// Replace wipes all three tables and reinserts the backup content with its
// original ids, then resets the sequence counters to the max id seen.
// The whole restore runs in one transaction so a mid-restore failure
// cannot leave the store partially repopulated.
func (r *BackupRepo) Replace(data domain.BackupData) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Children before parents.
	for _, stmt := range []string{
		`DELETE FROM usage_logs`,
		`DELETE FROM products`,
		`DELETE FROM categories`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	var maxCat, maxProd, maxLog int64
	for _, c := range data.Categories {
		subs, err := json.Marshal(c.Subcategories)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO categories(id, name, color, subcategories, created_at) VALUES(?,?,?,?,?)`,
			c.ID, c.Name, c.Color, string(subs), c.CreatedAt); err != nil {
			return err
		}
		if c.ID > maxCat {
			maxCat = c.ID
		}
	}
	for _, p := range data.Products {
		if _, err := tx.Exec(`
		  INSERT INTO products(id, name, brand, category_id, subcategory, status, size, size_unit,
		    purchase_date, date_opened, date_finished, rating, review, created_at, last_used)
		  VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		`, p.ID, p.Name, p.Brand, p.CategoryID, p.Subcategory, p.Status, p.Size, p.SizeUnit,
			p.PurchaseDate, p.DateOpened, p.DateFinished, p.Rating, p.Review, p.CreatedAt, p.LastUsed); err != nil {
			return err
		}
		if p.ID > maxProd {
			maxProd = p.ID
		}
	}
	for _, l := range data.UsageLogs {
		if _, err := tx.Exec(`INSERT INTO usage_logs(id, product_id, date) VALUES(?,?,?)`,
			l.ID, l.ProductID, l.Date); err != nil {
			return err
		}
		if l.ID > maxLog {
			maxLog = l.ID
		}
	}

	for table, max := range map[string]int64{
		"categories": maxCat,
		"products":   maxProd,
		"usage_logs": maxLog,
	} {
		if err := resetSequence(tx, table, max); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func resetSequence(tx *sqlx.Tx, table string, max int64) error {
	res, err := tx.Exec(`UPDATE sqlite_sequence SET seq = ? WHERE name = ?`, max, table)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		_, err = tx.Exec(`INSERT INTO sqlite_sequence(name, seq) VALUES(?,?)`, table, max)
	}
	return err
}
