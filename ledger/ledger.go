/*
Package ledger keeps the history of evaluation results of training runs in a sqlite database.
*/
package ledger

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3" // driver
	"go-ml.dev/pkg/zorros/zorros"
)

const schema = `
CREATE TABLE IF NOT EXISTS results (
	run        TEXT    NOT NULL,
	epoch      INTEGER NOT NULL,
	dataset    TEXT    NOT NULL,
	psnr       REAL,
	ssim       REAL,
	scored     INTEGER NOT NULL,
	saved      INTEGER NOT NULL,
	failures   INTEGER NOT NULL,
	created_at INTEGER NOT NULL
)`

/*
Entry is one evaluation of one dataset. PSNR and SSIM are nil for unaligned datasets.
*/
type Entry struct {
	Run      string
	Epoch    int
	Dataset  string
	PSNR     *float64
	SSIM     *float64
	Scored   int
	Saved    int
	Failures int
	Created  time.Time
}

/*
Ledger is safe for concurrent use
*/
type Ledger struct {
	db *sql.DB
}

// Open creates the database and the results table if they do not exist, path may be ":memory:"
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, zorros.Wrapf(err, "failed to open ledger %v: %v", path, err.Error())
	}
	db.SetMaxOpenConns(1)
	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, zorros.Wrapf(err, "failed to create ledger schema: %v", err.Error())
	}
	return &Ledger{db}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record appends an entry, the zero Created time means now
func (l *Ledger) Record(e Entry) error {
	if e.Created.IsZero() {
		e.Created = time.Now()
	}
	_, err := l.db.Exec(
		`INSERT INTO results (run, epoch, dataset, psnr, ssim, scored, saved, failures, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Run, e.Epoch, e.Dataset, e.PSNR, e.SSIM, e.Scored, e.Saved, e.Failures, e.Created.UnixNano())
	if err != nil {
		return zorros.Wrapf(err, "failed to record %v/%v: %v", e.Run, e.Dataset, err.Error())
	}
	return nil
}

// Results lists entries of the run ordered by insertion
func (l *Ledger) Results(run string) ([]Entry, error) {
	rows, err := l.db.Query(
		`SELECT run, epoch, dataset, psnr, ssim, scored, saved, failures, created_at
		 FROM results WHERE run = ? ORDER BY rowid`, run)
	if err != nil {
		return nil, zorros.Trace(err)
	}
	defer rows.Close()
	var r []Entry
	for rows.Next() {
		var e Entry
		var psnr, ssim sql.NullFloat64
		var created int64
		if err = rows.Scan(&e.Run, &e.Epoch, &e.Dataset, &psnr, &ssim, &e.Scored, &e.Saved, &e.Failures, &created); err != nil {
			return nil, zorros.Trace(err)
		}
		if psnr.Valid {
			e.PSNR = &psnr.Float64
		}
		if ssim.Valid {
			e.SSIM = &ssim.Float64
		}
		e.Created = time.Unix(0, created)
		r = append(r, e)
	}
	if err = rows.Err(); err != nil {
		return nil, zorros.Trace(err)
	}
	return r, nil
}
