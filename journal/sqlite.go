package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordOrder(o OrderRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO orders
		(order_id, user_id, symbol, side, quantity, price, cost, time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.OrderID, o.UserID, o.Symbol, o.Side,
		o.Quantity, o.Price, o.Cost, o.Time,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquityMark) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, user_id, cash, stock_value, total_value, total_pl)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.Time, e.UserID, e.Cash, e.StockValue, e.TotalValue, e.TotalPL,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
