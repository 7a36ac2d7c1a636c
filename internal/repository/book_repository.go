package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/bookstore/internal/model"
)

const bookColumns = "reference, title, author, editor, year, price, description, cover, stock, created_at, updated_at"

// BookRepo handles the books table.  Stock mutations are single conditional
// statements so concurrent buyers can never drive stock below zero.
type BookRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewBookRepo(db *sql.DB) *BookRepo {
	return &BookRepo{db: db, now: func() time.Time { return time.Now().UTC().Truncate(time.Second) }}
}

// DB exposes the underlying handle so handlers can open transactions.
func (r *BookRepo) DB() *sql.DB { return r.db }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(s rowScanner) (*model.Book, error) {
	var (
		b           model.Book
		description sql.NullString
		cover       sql.NullString
		created     sql.NullTime
		updated     sql.NullTime
	)
	if err := s.Scan(&b.Reference, &b.Title, &b.Author, &b.Editor, &b.Year, &b.Price,
		&description, &cover, &b.Stock, &created, &updated); err != nil {
		return nil, err
	}
	b.Description = description.String
	b.Cover = cover.String
	b.CreatedAt = created.Time
	b.UpdatedAt = updated.Time
	return &b, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Create inserts b with server assigned timestamps, which are written back
// into b.
func (r *BookRepo) Create(ctx context.Context, b *model.Book) error {
	now := r.now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO books (reference, title, author, editor, year, price, description, cover, stock, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Reference, strings.TrimSpace(b.Title), strings.TrimSpace(b.Author), strings.TrimSpace(b.Editor),
		b.Year, b.Price, nullable(b.Description), nullable(b.Cover), b.Stock, now, now)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrBookExists
		}
		return err
	}
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.Editor = strings.TrimSpace(b.Editor)
	b.CreatedAt, b.UpdatedAt = now, now
	return nil
}

// GetByReference returns ErrBookNotFound when no book carries ref.
func (r *BookRepo) GetByReference(ctx context.Context, ref uint64) (*model.Book, error) {
	b, err := scanBook(r.db.QueryRowContext(ctx, "SELECT "+bookColumns+" FROM books WHERE reference = ?", ref))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookNotFound
	}
	return b, err
}

// List returns every book ordered by reference.
func (r *BookRepo) List(ctx context.Context) ([]model.Book, error) {
	return r.query(ctx, "SELECT "+bookColumns+" FROM books ORDER BY reference")
}

// SearchByTitle matches title case-insensitively against substr taken
// literally.
func (r *BookRepo) SearchByTitle(ctx context.Context, substr string) ([]model.Book, error) {
	return r.query(ctx,
		"SELECT "+bookColumns+" FROM books WHERE LOWER(title) LIKE LOWER(?) ORDER BY reference",
		likeContains(substr))
}

func (r *BookRepo) query(ctx context.Context, q string, args ...any) ([]model.Book, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	books := []model.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

// Update rewrites every column except reference and created_at and returns
// the stored row.
func (r *BookRepo) Update(ctx context.Context, b *model.Book) (*model.Book, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE books SET title = ?, author = ?, editor = ?, year = ?, price = ?, description = ?, cover = ?, stock = ?, updated_at = ?
		 WHERE reference = ?`,
		strings.TrimSpace(b.Title), strings.TrimSpace(b.Author), strings.TrimSpace(b.Editor), b.Year, b.Price,
		nullable(b.Description), nullable(b.Cover), b.Stock, r.now(), b.Reference)
	if err != nil {
		return nil, err
	}
	if err := affected(res, ErrBookNotFound); err != nil {
		return nil, err
	}
	return r.GetByReference(ctx, b.Reference)
}

// Delete removes the book with ref and reports how many rows went away.  A
// book still referenced by order items yields ErrBookInUse.
func (r *BookRepo) Delete(ctx context.Context, ref uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM books WHERE reference = ?", ref)
	if err != nil {
		if isReferenced(err) {
			return 0, ErrBookInUse
		}
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteByTitle removes every book whose title contains substr.
func (r *BookRepo) DeleteByTitle(ctx context.Context, substr string) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM books WHERE title LIKE ?", likeContains(substr))
	if err != nil {
		if isReferenced(err) {
			return 0, ErrBookInUse
		}
		return 0, err
	}
	return res.RowsAffected()
}

// ConsumeStock takes one unit of stock.  Missing books and empty stock are
// indistinguishable and both yield ErrOutOfStockOrNotFound.
func (r *BookRepo) ConsumeStock(ctx context.Context, ref uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE books SET stock = stock - 1, updated_at = ? WHERE reference = ? AND stock > 0",
		r.now(), ref)
	if err != nil {
		return err
	}
	return affected(res, ErrOutOfStockOrNotFound)
}

// ReplenishStock adds amount units.  Callers validate amount > 0.
func (r *BookRepo) ReplenishStock(ctx context.Context, ref uint64, amount int) error {
	return r.replenish(ctx, r.db, ref, amount)
}

// ReplenishStockTx is ReplenishStock inside tx.
func (r *BookRepo) ReplenishStockTx(ctx context.Context, tx *sql.Tx, ref uint64, amount int) error {
	return r.replenish(ctx, tx, ref, amount)
}

func (r *BookRepo) replenish(ctx context.Context, q querier, ref uint64, amount int) error {
	res, err := q.ExecContext(ctx,
		"UPDATE books SET stock = stock + ?, updated_at = ? WHERE reference = ?",
		amount, r.now(), ref)
	if err != nil {
		return err
	}
	return affected(res, ErrBookNotFound)
}

// GetStock returns the current stock of ref.
func (r *BookRepo) GetStock(ctx context.Context, ref uint64) (int, error) {
	var stock int
	err := r.db.QueryRowContext(ctx, "SELECT stock FROM books WHERE reference = ?", ref).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrBookNotFound
	}
	return stock, err
}

// GetForUpdateTx loads ref and holds its row lock until tx ends.
func (r *BookRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, ref uint64) (*model.Book, error) {
	b, err := scanBook(tx.QueryRowContext(ctx, "SELECT "+bookColumns+" FROM books WHERE reference = ? FOR UPDATE", ref))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookNotFound
	}
	return b, err
}

// ReserveStockTx takes qty units in one conditional statement.  When stock
// cannot cover qty an *OutOfStockError is returned.
func (r *BookRepo) ReserveStockTx(ctx context.Context, tx *sql.Tx, ref uint64, qty int) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE books SET stock = stock - ?, updated_at = ? WHERE reference = ? AND stock >= ?",
		qty, r.now(), ref, qty)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &OutOfStockError{BookID: ref, Requested: qty}
	}
	return nil
}
