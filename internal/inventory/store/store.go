package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/prasetyadi/biltrack/internal/inventory"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) ListCategories(ctx context.Context) ([]*inventory.Category, error) {
	query := `
		SELECT c.id, c.name, c.description, COUNT(i.id) AS item_count, c.created_at, c.updated_at
		FROM inventory_categories c
		LEFT JOIN inventory_items i ON c.id = i.category_id
		GROUP BY c.id, c.name, c.description, c.created_at, c.updated_at
		ORDER BY c.name ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var cats []*inventory.Category

	for rows.Next() {
		var cat inventory.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.ItemCount, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		cats = append(cats, &cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	return cats, nil
}

func (s *Store) CreateCategory(ctx context.Context, cat *inventory.Category) error {
	query := `
		INSERT INTO inventory_categories (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, cat.Name, cat.Description).Scan(&cat.ID, &cat.CreatedAt); err != nil {
		return fmt.Errorf("creating category: %w", err)
	}

	return nil
}

func (s *Store) UpdateCategory(ctx context.Context, cat *inventory.Category) error {
	query := `
		UPDATE inventory_categories
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
	`

	res, err := s.db.ExecContext(ctx, query, cat.Name, cat.Description, cat.ID)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}

	if affected == 0 {
		return inventory.ErrNotFound
	}

	return nil
}

// DeleteCategory refuses to delete while items still reference the category,
// checked inside the same transaction as the delete.
func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var itemCount int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM inventory_items WHERE category_id = $1", id,
	).Scan(&itemCount); err != nil {
		return fmt.Errorf("counting category items: %w", err)
	}

	if itemCount > 0 {
		return inventory.ErrCategoryInUse
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM inventory_categories WHERE id = $1", id)
	if err != nil {
		// An item insert committing between the count and the delete
		// lands here as a foreign key violation.
		if isForeignKeyViolation(err) {
			return inventory.ErrCategoryInUse
		}

		return fmt.Errorf("deleting category: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	if affected == 0 {
		return inventory.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}

	return nil
}

// isForeignKeyViolation reports SQLSTATE 23503.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

const selectItemColumns = `i.id, i.name, i.category_id, c.name AS category_name, i.sku,
	i.description, i.price, i.stock_quantity, i.min_stock_level, i.status, i.created_at, i.updated_at`

func scanItem(sc scanner) (*inventory.Item, error) {
	var item inventory.Item

	var categoryID uuid.NullUUID

	var categoryName sql.NullString

	if err := sc.Scan(
		&item.ID, &item.Name, &categoryID, &categoryName, &item.SKU,
		&item.Description, &item.Price, &item.StockQuantity, &item.MinStockLevel,
		&item.Status, &item.CreatedAt, &item.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if categoryID.Valid {
		item.CategoryID = &categoryID.UUID
	}

	item.CategoryName = categoryName.String

	return &item, nil
}

func (s *Store) ListItems(ctx context.Context, filter inventory.ItemFilter) ([]*inventory.Item, error) {
	builder := psql.
		Select(selectItemColumns).
		From("inventory_items i").
		LeftJoin("inventory_categories c ON i.category_id = c.id").
		OrderBy("i.name ASC")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"i.name": pattern},
			sq.ILike{"i.sku": pattern},
			sq.ILike{"i.description": pattern},
		})
	}

	if filter.CategoryID != nil {
		builder = builder.Where(sq.Eq{"i.category_id": *filter.CategoryID})
	}

	switch filter.Status {
	case inventory.StockOutOfStock:
		builder = builder.Where(sq.Eq{"i.stock_quantity": 0})
	case inventory.StockLow:
		builder = builder.Where(sq.Gt{"i.stock_quantity": 0}).
			Where(sq.Expr("i.stock_quantity <= i.min_stock_level"))
	case inventory.StockAvailable:
		builder = builder.Where(sq.Expr("i.stock_quantity > i.min_stock_level"))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building item query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

func collectItems(rows *sql.Rows) ([]*inventory.Item, error) {
	var items []*inventory.Item

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating item rows: %w", err)
	}

	return items, nil
}

func (s *Store) GetItem(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	query := `SELECT ` + selectItemColumns + `
		FROM inventory_items i
		LEFT JOIN inventory_categories c ON i.category_id = c.id
		WHERE i.id = $1`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, inventory.ErrNotFound
		}

		return nil, fmt.Errorf("getting item: %w", err)
	}

	return item, nil
}

func (s *Store) CreateItem(ctx context.Context, item *inventory.Item) error {
	query := `
		INSERT INTO inventory_items (name, category_id, sku, description, price, stock_quantity, min_stock_level, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		item.Name,
		item.CategoryID,
		item.SKU,
		item.Description,
		item.Price,
		item.StockQuantity,
		item.MinStockLevel,
		item.Status,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating item: %w", err)
	}

	return nil
}

func (s *Store) UpdateItem(ctx context.Context, item *inventory.Item) error {
	query := `
		UPDATE inventory_items
		SET name = $1, category_id = $2, sku = $3, description = $4, price = $5,
			stock_quantity = $6, min_stock_level = $7, status = $8, updated_at = NOW()
		WHERE id = $9
	`

	res, err := s.db.ExecContext(ctx, query,
		item.Name,
		item.CategoryID,
		item.SKU,
		item.Description,
		item.Price,
		item.StockQuantity,
		item.MinStockLevel,
		item.Status,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}

	if affected == 0 {
		return inventory.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteItem(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM inventory_items WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	if affected == 0 {
		return inventory.ErrNotFound
	}

	return nil
}

const selectMovementColumns = `sm.id, sm.item_id, i.name AS item_name, i.sku, c.name AS category_name,
	sm.movement_type, sm.quantity, sm.reference_number, sm.notes, sm.created_by, sm.created_at`

func scanMovement(sc scanner) (*inventory.Movement, error) {
	var mv inventory.Movement

	var typeStr string

	var categoryName sql.NullString

	if err := sc.Scan(
		&mv.ID, &mv.ItemID, &mv.ItemName, &mv.SKU, &categoryName,
		&typeStr, &mv.Quantity, &mv.Reference, &mv.Notes, &mv.CreatedBy, &mv.CreatedAt,
	); err != nil {
		return nil, err
	}

	mv.Type = inventory.MovementType(typeStr)
	mv.CategoryName = categoryName.String

	return &mv, nil
}

func (s *Store) ListMovements(ctx context.Context, filter inventory.MovementFilter) ([]*inventory.Movement, error) {
	builder := psql.
		Select(selectMovementColumns).
		From("stock_movements sm").
		Join("inventory_items i ON sm.item_id = i.id").
		LeftJoin("inventory_categories c ON i.category_id = c.id").
		OrderBy("sm.created_at DESC").
		Limit(uint64(filter.Limit))

	if filter.ItemID != nil {
		builder = builder.Where(sq.Eq{"sm.item_id": *filter.ItemID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building movement query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing movements: %w", err)
	}
	defer rows.Close()

	return collectMovements(rows)
}

func collectMovements(rows *sql.Rows) ([]*inventory.Movement, error) {
	var mvs []*inventory.Movement

	for rows.Next() {
		mv, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning movement: %w", err)
		}

		mvs = append(mvs, mv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating movement rows: %w", err)
	}

	return mvs, nil
}

func (s *Store) CreateMovement(ctx context.Context, mv *inventory.Movement) error {
	query := `
		INSERT INTO stock_movements (item_id, movement_type, quantity, reference_number, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		mv.ItemID,
		mv.Type,
		mv.Quantity,
		mv.Reference,
		mv.Notes,
		mv.CreatedBy,
	).Scan(&mv.ID, &mv.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating movement: %w", err)
	}

	return nil
}

func (s *Store) CategorySummaries(ctx context.Context) ([]*inventory.CategorySummary, error) {
	query := `
		SELECT c.name AS category,
			COUNT(i.id) AS total_items,
			COALESCE(SUM(i.stock_quantity), 0) AS total_stock,
			COALESCE(SUM(CASE WHEN i.stock_quantity = 0 THEN 1 ELSE 0 END), 0) AS out_of_stock,
			COALESCE(SUM(CASE WHEN i.stock_quantity > 0 AND i.stock_quantity <= i.min_stock_level THEN 1 ELSE 0 END), 0) AS low_stock,
			COALESCE(SUM(i.stock_quantity * i.price), 0) AS total_value
		FROM inventory_categories c
		LEFT JOIN inventory_items i ON c.id = i.category_id
		GROUP BY c.id, c.name
		ORDER BY c.name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying stock summary: %w", err)
	}
	defer rows.Close()

	var sums []*inventory.CategorySummary

	for rows.Next() {
		var row inventory.CategorySummary
		if err := rows.Scan(&row.Category, &row.TotalItems, &row.TotalStock, &row.OutOfStock, &row.LowStock, &row.TotalValue); err != nil {
			return nil, fmt.Errorf("scanning stock summary: %w", err)
		}

		sums = append(sums, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stock summary rows: %w", err)
	}

	return sums, nil
}

func (s *Store) LowStockItems(ctx context.Context) ([]*inventory.Item, error) {
	query := `SELECT ` + selectItemColumns + `
		FROM inventory_items i
		LEFT JOIN inventory_categories c ON i.category_id = c.id
		WHERE i.stock_quantity <= i.min_stock_level
		ORDER BY i.stock_quantity ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing low stock items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

func (s *Store) RecentMovements(ctx context.Context, days int) ([]*inventory.Movement, error) {
	query := `SELECT ` + selectMovementColumns + `
		FROM stock_movements sm
		JOIN inventory_items i ON sm.item_id = i.id
		LEFT JOIN inventory_categories c ON i.category_id = c.id
		WHERE sm.created_at >= NOW() - $1 * INTERVAL '1 day'
		ORDER BY sm.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("listing recent movements: %w", err)
	}
	defer rows.Close()

	return collectMovements(rows)
}
