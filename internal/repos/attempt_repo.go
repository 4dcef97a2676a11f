package repos

import (
	"time"

	"github.com/jmoiron/sqlx"
)

// AttemptRepo backs the sliding-window PIN rate limiter with a
// timestamped attempts log.
type AttemptRepo struct{ db *sqlx.DB }

func NewAttemptRepo(db *sqlx.DB) *AttemptRepo { return &AttemptRepo{db: db} }

// CountSince returns how many attempts a client made strictly after the
// given instant. RFC3339 UTC strings compare lexicographically, so this
// works as a plain string comparison in SQL.
func (r *AttemptRepo) CountSince(ip string, since time.Time) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM auth_attempts WHERE ip_address = ? AND attempted_at > ?`,
		ip, Timestamp(since))
	return n, err
}

func (r *AttemptRepo) Record(ip string, at time.Time) error {
	_, err := r.db.Exec(`INSERT INTO auth_attempts(ip_address, attempted_at) VALUES(?,?)`, ip, Timestamp(at))
	return err
}

// PruneBefore deletes attempts older than the cutoff and reports how many
// rows went away. Safe to re-run; duplicate prunes are harmless.
func (r *AttemptRepo) PruneBefore(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM auth_attempts WHERE attempted_at <= ?`, Timestamp(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
