package storage

import (
	"database/sql"
	"time"

	"apt/src/helpers"
	"apt/src/logger"
	"apt/src/models"

	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------

type SQLiteStore struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSQLiteStore(cfg *models.MConfig, log *logger.Logger) (*SQLiteStore, error) {
	return &SQLiteStore{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) Initialize() error {
	dsn := d.Config.Storage.DBPath

	// Open DB
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	return d.createTables()
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) createTables() error {
	// Observations survive restarts; retention eviction is the only cleanup.
	query := `
		CREATE TABLE IF NOT EXISTS commodity_prices (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			commodity_name TEXT NOT NULL,
			price_buy NUMERIC,
			price_sell NUMERIC,
			weight_scu INTEGER,
			observed_at INTEGER NOT NULL
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return helpers.NewPersistenceError("failed to create commodity_prices", err)
	}

	query = `
		CREATE INDEX IF NOT EXISTS idx_commodity_prices_name_time
		ON commodity_prices (commodity_name, observed_at);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return helpers.NewPersistenceError("failed to index commodity_prices", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) Record(obs models.MPriceObservation) error {
	query := `
		INSERT INTO commodity_prices (commodity_name, price_buy, price_sell, weight_scu, observed_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := d.DB.Exec(query,
		obs.CommodityName, obs.PriceBuy, obs.PriceSell, obs.WeightSCU, obs.ObservedAt.Unix())
	if err != nil {
		return helpers.NewPersistenceError("failed to insert observation", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) Latest(commodityName string) (models.MPriceObservation, error) {
	query := `
		SELECT id, commodity_name, price_buy, price_sell, weight_scu, observed_at
		FROM commodity_prices
		WHERE commodity_name = ?
		ORDER BY observed_at DESC, id DESC
		LIMIT 1
	`
	row := d.DB.QueryRow(query, commodityName)

	obs, err := scanObservation(row.Scan)
	if err == sql.ErrNoRows {
		return models.MPriceObservation{}, helpers.NewNotFoundError("no observations for " + commodityName)
	}
	if err != nil {
		return models.MPriceObservation{}, helpers.NewPersistenceError("failed to read latest observation", err)
	}
	return obs, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) Trend(commodityName string, window time.Duration) ([]models.MPriceObservation, error) {
	cutoff := time.Now().UTC().Add(-window).Unix()

	query := `
		SELECT id, commodity_name, price_buy, price_sell, weight_scu, observed_at
		FROM commodity_prices
		WHERE commodity_name = ? AND observed_at >= ?
		ORDER BY observed_at ASC, id ASC
	`
	rows, err := d.DB.Query(query, commodityName, cutoff)
	if err != nil {
		return nil, helpers.NewPersistenceError("failed to query trend", err)
	}
	defer rows.Close()

	var result []models.MPriceObservation
	for rows.Next() {
		obs, err := scanObservation(rows.Scan)
		if err != nil {
			return nil, helpers.NewPersistenceError("failed to scan trend row", err)
		}
		result = append(result, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, helpers.NewPersistenceError("failed to iterate trend rows", err)
	}
	return result, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) EvictOlderThan(window time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-window).Unix()

	res, err := d.DB.Exec("DELETE FROM commodity_prices WHERE observed_at < ?", cutoff)
	if err != nil {
		return 0, helpers.NewPersistenceError("failed to evict old observations", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, helpers.NewPersistenceError("failed to count evicted rows", err)
	}
	return removed, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) DistinctCommodityNames() ([]string, error) {
	rows, err := d.DB.Query("SELECT DISTINCT commodity_name FROM commodity_prices ORDER BY commodity_name")
	if err != nil {
		return nil, helpers.NewPersistenceError("failed to query commodity names", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, helpers.NewPersistenceError("failed to scan commodity name", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, helpers.NewPersistenceError("failed to iterate commodity names", err)
	}
	return names, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}

// -----------------------------------------------------------------------------

// scanObservation maps one row onto the model; observed_at is stored as
// unix seconds.
func scanObservation(scan func(dest ...interface{}) error) (models.MPriceObservation, error) {
	var obs models.MPriceObservation
	var observedAt int64

	err := scan(&obs.ID, &obs.CommodityName, &obs.PriceBuy, &obs.PriceSell, &obs.WeightSCU, &observedAt)
	if err != nil {
		return models.MPriceObservation{}, err
	}

	obs.ObservedAt = time.Unix(observedAt, 0).UTC()
	return obs, nil
}
