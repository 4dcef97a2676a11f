package repos

import (
	"encoding/json"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Single connection: keeps :memory: databases coherent and makes the
	// foreign_keys pragma apply to every statement.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed default categories if DB is empty (idempotent; safe on every start)
	if err := seedCategories(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  color TEXT,
  subcategories TEXT NOT NULL DEFAULT '[]',
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_categories_name ON categories(name);

-- Products
CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  brand TEXT,
  category_id INTEGER REFERENCES categories(id) ON DELETE CASCADE,
  subcategory TEXT,
  status TEXT NOT NULL DEFAULT 'in_stock' CHECK (status IN ('in_stock','in_use','finished')),
  size NUMERIC,
  size_unit TEXT,
  purchase_date TEXT,
  date_opened TEXT,
  date_finished TEXT,
  rating INTEGER CHECK (rating BETWEEN 1 AND 5),
  review TEXT,
  created_at TEXT NOT NULL,
  last_used TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_status   ON products(status);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_created  ON products(created_at);

-- Usage logs
CREATE TABLE IF NOT EXISTS usage_logs(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  date TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_usage_logs_product ON usage_logs(product_id);
CREATE INDEX IF NOT EXISTS idx_usage_logs_date    ON usage_logs(date);

-- Auth rate limiting
CREATE TABLE IF NOT EXISTS auth_attempts(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ip_address TEXT NOT NULL,
  attempted_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_auth_attempts_ip   ON auth_attempts(ip_address);
CREATE INDEX IF NOT EXISTS idx_auth_attempts_time ON auth_attempts(attempted_at);
`
	_, err := db.Exec(schema)
	return err
}

// Timestamp formats a time the way every table stores it.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

type seedCategory struct {
	Name          string
	Color         string
	Subcategories []string
}

var defaultCategories = []seedCategory{
	{"Skincare", "#E57373", []string{"Cleanser", "Toner", "Serum", "Moisturizer", "Eye Cream", "Mask", "Sunscreen", "Oil", "Exfoliant"}},
	{"Makeup", "#F06292", []string{"Foundation", "Concealer", "Powder", "Blush", "Bronzer", "Highlighter", "Eyeshadow", "Eyeliner", "Mascara", "Lipstick", "Gloss", "Setting Spray"}},
	{"Hair", "#BA68C8", []string{"Shampoo", "Conditioner", "Mask", "Oil", "Styling", "Treatment"}},
	{"Body", "#64B5F6", []string{"Body Wash", "Body Lotion", "Scrub", "Oil", "Deodorant", "Hand Cream"}},
	{"Fragrance", "#4DB6AC", []string{"Perfume", "Body Mist"}},
	{"Nails", "#81C784", []string{"Polish", "Care", "Remover"}},
}

func seedCategories(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting default categories")

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, c := range defaultCategories {
		subs, err := json.Marshal(c.Subcategories)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO categories(name, color, subcategories, created_at) VALUES(?,?,?,?)`,
			c.Name, c.Color, string(subs), Timestamp(time.Now())); err != nil {
			return err
		}
	}
	return tx.Commit()
}
