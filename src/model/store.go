package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/username/shopledger/backend/src/models"
)

// Store reads the shop ledger and writes settings.
type Store struct {
	db *sqlx.DB
}

func NewStore(conn *sql.DB) *Store {
	return &Store{db: sqlx.NewDb(conn, "sqlite")}
}

const saleColumns = `id, currency, total, usd_amount, iqd_amount, discount, is_debt, exchange_rate, created_at`

// obligationTables maps each kind to its table and name column.
var obligationTables = map[models.ObligationKind]struct{ table, nameColumn string }{
	models.ObligationCompanyDebt:  {"company_debts", "company_name"},
	models.ObligationPersonalLoan: {"personal_loans", "person_name"},
}

// GetBalances returns the cash on hand. A missing row reads as zero.
func (s *Store) GetBalances(ctx context.Context) (models.Balances, error) {
	var row struct {
		USD sql.NullFloat64 `db:"usd_balance"`
		IQD sql.NullFloat64 `db:"iqd_balance"`
	}
	err := s.db.GetContext(ctx, &row, `SELECT usd_balance, iqd_balance FROM balances WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Balances{}, nil
	}
	if err != nil {
		return models.Balances{}, fmt.Errorf("failed to load balances: %w", err)
	}
	return models.Balances{USD: decimalOf(row.USD), IQD: decimalOf(row.IQD)}, nil
}

// GetSales loads every sale with its items in insertion order.
func (s *Store) GetSales(ctx context.Context) ([]models.Sale, error) {
	var rows []saleRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+saleColumns+` FROM sales ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}

	var itemRows []saleItemRow
	query := `SELECT sale_id, name, quantity, buying_price, selling_price, product_currency FROM sale_items ORDER BY sale_id, id`
	if err := s.db.SelectContext(ctx, &itemRows, query); err != nil {
		return nil, fmt.Errorf("failed to load sale items: %w", err)
	}

	itemsBySale := make(map[int64][]models.SaleItem, len(rows))
	for _, r := range itemRows {
		itemsBySale[r.SaleID] = append(itemsBySale[r.SaleID], r.toItem())
	}

	sales := make([]models.Sale, 0, len(rows))
	for _, r := range rows {
		sale := r.toSale()
		if items, ok := itemsBySale[sale.ID]; ok {
			sale.Items = items
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

// GetSale loads one sale with its items. It returns sql.ErrNoRows (wrapped)
// when the sale does not exist.
func (s *Store) GetSale(ctx context.Context, id int64) (models.Sale, error) {
	var row saleRow
	if err := s.db.GetContext(ctx, &row, `SELECT `+saleColumns+` FROM sales WHERE id = ?`, id); err != nil {
		return models.Sale{}, fmt.Errorf("failed to load sale %d: %w", id, err)
	}

	var itemRows []saleItemRow
	query := `SELECT sale_id, name, quantity, buying_price, selling_price, product_currency FROM sale_items WHERE sale_id = ? ORDER BY id`
	if err := s.db.SelectContext(ctx, &itemRows, query, id); err != nil {
		return models.Sale{}, fmt.Errorf("failed to load items of sale %d: %w", id, err)
	}

	sale := row.toSale()
	for _, r := range itemRows {
		sale.Items = append(sale.Items, r.toItem())
	}
	return sale, nil
}

// GetDebts loads the customer debt records.
func (s *Store) GetDebts(ctx context.Context) ([]models.Debt, error) {
	var rows []debtRow
	query := `SELECT id, sale_id, currency, amount, usd_amount, iqd_amount, paid, paid_at FROM customer_debts ORDER BY id`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to load customer debts: %w", err)
	}
	debts := make([]models.Debt, 0, len(rows))
	for _, r := range rows {
		debts = append(debts, r.toDebt())
	}
	return debts, nil
}

// GetObligations loads company debts or personal loans.
func (s *Store) GetObligations(ctx context.Context, kind models.ObligationKind) ([]models.Obligation, error) {
	t, ok := obligationTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown obligation kind %q", kind)
	}

	var rows []obligationRow
	query := fmt.Sprintf(`
		SELECT id, %s AS name, currency, amount, usd_amount, iqd_amount,
		       payment_usd_amount, payment_iqd_amount, paid_at
		FROM %s ORDER BY id`, t.nameColumn, t.table)
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", t.table, err)
	}

	records := make([]models.Obligation, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.toObligation(kind))
	}
	return records, nil
}

// GetStockItems loads products and accessories, archived ones included.
func (s *Store) GetStockItems(ctx context.Context) ([]models.StockItem, error) {
	var rows []stockRow
	query := `
		SELECT id, 'product' AS kind, name, buying_price, stock, currency, archived FROM products
		UNION ALL
		SELECT id, 'accessory' AS kind, name, buying_price, stock, currency, archived FROM accessories
		ORDER BY kind, id`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to load stock: %w", err)
	}

	items := make([]models.StockItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toStockItem())
	}
	return items, nil
}

// GetSetting returns the stored value of key and whether it exists.
func (s *Store) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM settings WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting upserts a setting value.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}
