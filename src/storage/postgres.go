package storage

import (
	"database/sql"
	"time"

	"apt/src/helpers"
	"apt/src/logger"
	"apt/src/models"

	_ "github.com/lib/pq"
)

// -----------------------------------------------------------------------------

type PostgresStore struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewPostgresStore(cfg *models.MConfig, log *logger.Logger) (*PostgresStore, error) {
	return &PostgresStore{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) Initialize() error {
	dsn := d.Config.Storage.DBConnectionString
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	d.DB = db

	query := `
		CREATE TABLE IF NOT EXISTS commodity_prices (
			id BIGSERIAL PRIMARY KEY,
			commodity_name TEXT NOT NULL,
			price_buy NUMERIC,
			price_sell NUMERIC,
			weight_scu BIGINT,
			observed_at BIGINT NOT NULL
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

	d.Logger.Info("PostgresStore initialized successfully")
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) Record(obs models.MPriceObservation) error {
	query := `
		INSERT INTO commodity_prices (commodity_name, price_buy, price_sell, weight_scu, observed_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := d.DB.Exec(query,
		obs.CommodityName, obs.PriceBuy, obs.PriceSell, obs.WeightSCU, obs.ObservedAt.Unix())
	if err != nil {
		return helpers.NewPersistenceError("failed to insert observation", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) Latest(commodityName string) (models.MPriceObservation, error) {
	query := `
		SELECT id, commodity_name, price_buy, price_sell, weight_scu, observed_at
		FROM commodity_prices
		WHERE commodity_name = $1
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

func (d *PostgresStore) Trend(commodityName string, window time.Duration) ([]models.MPriceObservation, error) {
	cutoff := time.Now().UTC().Add(-window).Unix()

	query := `
		SELECT id, commodity_name, price_buy, price_sell, weight_scu, observed_at
		FROM commodity_prices
		WHERE commodity_name = $1 AND observed_at >= $2
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

func (d *PostgresStore) EvictOlderThan(window time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-window).Unix()

	res, err := d.DB.Exec("DELETE FROM commodity_prices WHERE observed_at < $1", cutoff)
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

func (d *PostgresStore) DistinctCommodityNames() ([]string, error) {
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

func (d *PostgresStore) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
