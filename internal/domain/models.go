package domain

// Product lifecycle statuses.
const (
	StatusInStock  = "in_stock"
	StatusInUse    = "in_use"
	StatusFinished = "finished"
)

// CategoryColors is the palette cycled through when a category is created
// without an explicit color.
var CategoryColors = []string{
	"#E57373", // red
	"#F06292", // pink
	"#BA68C8", // purple
	"#64B5F6", // blue
	"#4DB6AC", // teal
	"#81C784", // green
	"#FFD54F", // yellow
	"#FFB74D", // orange
	"#A1887F", // brown
	"#90A4AE", // blue-grey
}

type Category struct {
	ID            int64    `db:"id" json:"id"`
	Name          string   `db:"name" json:"name"`
	Color         *string  `db:"color" json:"color"`
	Subcategories []string `db:"-" json:"subcategories"`
	CreatedAt     string   `db:"created_at" json:"createdAt"`

	// Raw JSON column backing Subcategories; decoded by the repo.
	SubcategoriesJSON string `db:"subcategories" json:"-"`
}

type Product struct {
	ID           int64    `db:"id" json:"id"`
	Name         string   `db:"name" json:"name"`
	Brand        *string  `db:"brand" json:"brand"`
	CategoryID   *int64   `db:"category_id" json:"categoryId"`
	Subcategory  *string  `db:"subcategory" json:"subcategory"`
	Status       string   `db:"status" json:"status"`
	Size         *float64 `db:"size" json:"size"`
	SizeUnit     *string  `db:"size_unit" json:"sizeUnit"`
	PurchaseDate *string  `db:"purchase_date" json:"purchaseDate"`
	DateOpened   *string  `db:"date_opened" json:"dateOpened"`
	DateFinished *string  `db:"date_finished" json:"dateFinished"`
	Rating       *int     `db:"rating" json:"rating"`
	Review       *string  `db:"review" json:"review"`
	CreatedAt    string   `db:"created_at" json:"createdAt"`
	LastUsed     *string  `db:"last_used" json:"lastUsed"`
}

type UsageLog struct {
	ID        int64  `db:"id" json:"id"`
	ProductID int64  `db:"product_id" json:"productId"`
	Date      string `db:"date" json:"date"`
}

type AuthAttempt struct {
	ID          int64  `db:"id" json:"id"`
	IPAddress   string `db:"ip_address" json:"ipAddress"`
	AttemptedAt string `db:"attempted_at" json:"attemptedAt"`
}

// MonthBucket is one entry of the month-by-month usage history.
type MonthBucket struct {
	Count int   `json:"count"`
	Days  []int `json:"days"`
}

// UsageStats is the aggregation of a product's usage events evaluated
// at a given instant.
type UsageStats struct {
	WeekCount        int                    `json:"weekCount"`
	MonthCount       int                    `json:"monthCount"`
	TotalCount       int                    `json:"totalCount"`
	CurrentMonthDays []int                  `json:"currentMonthDays"`
	MonthlyHistory   map[string]MonthBucket `json:"monthlyHistory"`
}

// Backup is the full-database export document.
type Backup struct {
	Version   int         `json:"version"`
	CreatedAt string      `json:"createdAt"`
	Data      *BackupData `json:"data"`
}

type BackupData struct {
	Categories []Category `json:"categories"`
	Products   []Product  `json:"products"`
	UsageLogs  []UsageLog `json:"usageLogs"`
}

// RestoreCounts reports how many rows a restore reinserted per table.
type RestoreCounts struct {
	Categories int `json:"categories"`
	Products   int `json:"products"`
	UsageLogs  int `json:"usageLogs"`
}
