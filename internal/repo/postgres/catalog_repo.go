package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/weddingwise/weddingwise-bookings/internal/domain"
)

// CatalogRepository covers both halves of the catalog: events and
// vendors share a shape, so they share a repository.
type CatalogRepository interface {
	ListEvents(ctx context.Context) ([]domain.Event, error)
	GetEventByID(ctx context.Context, id int64) (*domain.Event, error)
	GetEventByTitle(ctx context.Context, title string) (*domain.Event, error)
	CreateEvent(ctx context.Context, req *domain.EventRequest) (*domain.Event, error)
	UpdateEvent(ctx context.Context, id int64, req *domain.EventRequest) (*domain.Event, error)
	DeleteEvent(ctx context.Context, id int64) (bool, error)

	ListVendors(ctx context.Context) ([]domain.Vendor, error)
	GetVendorByID(ctx context.Context, id int64) (*domain.Vendor, error)
	GetVendorByName(ctx context.Context, name string) (*domain.Vendor, error)
	CreateVendor(ctx context.Context, req *domain.VendorRequest) (*domain.Vendor, error)
	UpdateVendor(ctx context.Context, id int64, req *domain.VendorRequest) (*domain.Vendor, error)
	DeleteVendor(ctx context.Context, id int64) (bool, error)
}

type catalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) CatalogRepository {
	return &catalogRepository{pool: pool}
}

const eventCols = `id, title, description, img, created_at, updated_at`
const vendorCols = `id, name, description, img, created_at, updated_at`

func (r *catalogRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events ORDER BY title`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Img, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *catalogRepository) GetEventByID(ctx context.Context, id int64) (*domain.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var e domain.Event
	err := r.pool.QueryRow(ctx, q, id).Scan(&e.ID, &e.Title, &e.Description, &e.Img, &e.CreatedAt, &e.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &e, err
}

func (r *catalogRepository) GetEventByTitle(ctx context.Context, title string) (*domain.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events WHERE lower(title) = lower($1)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var e domain.Event
	err := r.pool.QueryRow(ctx, q, title).Scan(&e.ID, &e.Title, &e.Description, &e.Img, &e.CreatedAt, &e.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &e, err
}

func (r *catalogRepository) CreateEvent(ctx context.Context, req *domain.EventRequest) (*domain.Event, error) {
	const q = `
		INSERT INTO events (title, description, img)
		VALUES ($1, $2, $3)
		RETURNING ` + eventCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var e domain.Event
	err := r.pool.QueryRow(ctx, q, req.Title, req.Description, req.Img).Scan(
		&e.ID, &e.Title, &e.Description, &e.Img, &e.CreatedAt, &e.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return nil, domain.Conflictf("an event with this title already exists")
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *catalogRepository) UpdateEvent(ctx context.Context, id int64, req *domain.EventRequest) (*domain.Event, error) {
	const q = `
		UPDATE events
		SET title = $2, description = $3, img = $4, updated_at = now()
		WHERE id = $1
		RETURNING ` + eventCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var e domain.Event
	err := r.pool.QueryRow(ctx, q, id, req.Title, req.Description, req.Img).Scan(
		&e.ID, &e.Title, &e.Description, &e.Img, &e.CreatedAt, &e.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if isUniqueViolation(err) {
		return nil, domain.Conflictf("an event with this title already exists")
	}
	return &e, err
}

func (r *catalogRepository) DeleteEvent(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM events WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *catalogRepository) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	const q = `SELECT ` + vendorCols + ` FROM vendors ORDER BY name`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vendors []domain.Vendor
	for rows.Next() {
		var v domain.Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.Description, &v.Img, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

func (r *catalogRepository) GetVendorByID(ctx context.Context, id int64) (*domain.Vendor, error) {
	const q = `SELECT ` + vendorCols + ` FROM vendors WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var v domain.Vendor
	err := r.pool.QueryRow(ctx, q, id).Scan(&v.ID, &v.Name, &v.Description, &v.Img, &v.CreatedAt, &v.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &v, err
}

func (r *catalogRepository) GetVendorByName(ctx context.Context, name string) (*domain.Vendor, error) {
	const q = `SELECT ` + vendorCols + ` FROM vendors WHERE lower(name) = lower($1)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var v domain.Vendor
	err := r.pool.QueryRow(ctx, q, name).Scan(&v.ID, &v.Name, &v.Description, &v.Img, &v.CreatedAt, &v.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &v, err
}

func (r *catalogRepository) CreateVendor(ctx context.Context, req *domain.VendorRequest) (*domain.Vendor, error) {
	const q = `
		INSERT INTO vendors (name, description, img)
		VALUES ($1, $2, $3)
		RETURNING ` + vendorCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var v domain.Vendor
	err := r.pool.QueryRow(ctx, q, req.Name, req.Description, req.Img).Scan(
		&v.ID, &v.Name, &v.Description, &v.Img, &v.CreatedAt, &v.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return nil, domain.Conflictf("a vendor with this name already exists")
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *catalogRepository) UpdateVendor(ctx context.Context, id int64, req *domain.VendorRequest) (*domain.Vendor, error) {
	const q = `
		UPDATE vendors
		SET name = $2, description = $3, img = $4, updated_at = now()
		WHERE id = $1
		RETURNING ` + vendorCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var v domain.Vendor
	err := r.pool.QueryRow(ctx, q, id, req.Name, req.Description, req.Img).Scan(
		&v.ID, &v.Name, &v.Description, &v.Img, &v.CreatedAt, &v.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if isUniqueViolation(err) {
		return nil, domain.Conflictf("a vendor with this name already exists")
	}
	return &v, err
}

func (r *catalogRepository) DeleteVendor(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM vendors WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
