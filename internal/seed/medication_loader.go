package seed

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"drugstore/internal/money"
)

// LoadMedications ingests a CSV catalog (name, manufacturer, price,
// stock_quantity, expiration_date) into the medications table. Rows that
// fail to parse are skipped; seeding is best-effort and never aborts
// startup.
func LoadMedications(db *sqlx.DB, csvPath string, logger *zap.Logger) {
	file, err := os.Open(csvPath)
	if err != nil {
		logger.Warn("unable to load medication catalog", zap.String("path", csvPath), zap.Error(err))
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Skip header
	if _, err := reader.Read(); err != nil {
		logger.Warn("unable to read medication header", zap.Error(err))
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		logger.Warn("unable to start medication seed", zap.Error(err))
		return
	}
	stmt, err := tx.Preparex(`INSERT INTO medications (name, manufacturer, price, stock_quantity, expiration_date) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		logger.Warn("unable to prepare medication insert", zap.Error(err))
		_ = tx.Rollback()
		return
	}
	defer stmt.Close()

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn("unable to read medication row", zap.Error(err))
			continue
		}
		if len(record) < 5 {
			continue
		}
		name := strings.TrimSpace(record[0])
		manufacturer := strings.TrimSpace(record[1])
		if name == "" {
			continue
		}

		rawPrice, err := decimal.NewFromString(strings.TrimSpace(record[2]))
		if err != nil {
			continue
		}
		price, err := money.NewPrice(rawPrice)
		if err != nil || price.IsZero() {
			continue
		}
		stock, err := strconv.ParseInt(strings.TrimSpace(record[3]), 10, 64)
		if err != nil || stock < 0 {
			continue
		}
		expiration := strings.TrimSpace(record[4])

		if _, err := stmt.Exec(name, manufacturer, price, stock, expiration); err != nil {
			logger.Warn("unable to insert medication", zap.String("name", name), zap.Error(err))
		} else {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Warn("unable to commit medication seed", zap.Error(err))
		return
	}
	logger.Info("seeded medication catalog", zap.Int("rows", rows))
}
