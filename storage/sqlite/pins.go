package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mhpenta/pinflow"
)

const insertPinQuery = `
INSERT INTO pins (id, keyword, website, image1, image2, final_image, created_at, upload_link)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`

const selectPinColumns = `
SELECT id, keyword, website, image1, image2, final_image, created_at, upload_link FROM pins`

const updatePinQuery = `
UPDATE pins SET keyword = ?, website = ?, image1 = ?, image2 = ?, final_image = ?, created_at = ?, upload_link = ?
WHERE id = ?;
`

// PinRepo implements pinflow.PinStore. Insertion order defines the live
// order, so List returns the most recently added pin first.
type PinRepo struct {
	db *sql.DB
}

var _ pinflow.PinStore = (*PinRepo)(nil)

func (r *PinRepo) Add(ctx context.Context, pin *pinflow.Pin) error {
	_, err := r.db.ExecContext(ctx, insertPinQuery,
		pin.ID, pin.Keyword, pin.Website, pin.Image1, pin.Image2, pin.FinalImage,
		pin.CreatedAt.UnixNano(), pin.UploadLink,
	)
	if err != nil {
		return fmt.Errorf("insert pin %s: %w", pin.ID, err)
	}
	return nil
}

func (r *PinRepo) Get(ctx context.Context, id string) (*pinflow.Pin, error) {
	row := r.db.QueryRowContext(ctx, selectPinColumns+` WHERE id = ?;`, id)
	pin, err := scanPin(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", pinflow.ErrPinNotFound, id)
	}
	return pin, err
}

func (r *PinRepo) List(ctx context.Context) ([]*pinflow.Pin, error) {
	rows, err := r.db.QueryContext(ctx, selectPinColumns+` ORDER BY seq DESC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pins []*pinflow.Pin
	for rows.Next() {
		pin, err := scanPin(rows)
		if err != nil {
			return nil, err
		}
		pins = append(pins, pin)
	}
	return pins, rows.Err()
}

func (r *PinRepo) Update(ctx context.Context, pin *pinflow.Pin) error {
	res, err := r.db.ExecContext(ctx, updatePinQuery,
		pin.Keyword, pin.Website, pin.Image1, pin.Image2, pin.FinalImage,
		pin.CreatedAt.UnixNano(), pin.UploadLink, pin.ID,
	)
	if err != nil {
		return fmt.Errorf("update pin %s: %w", pin.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", pinflow.ErrPinNotFound, pin.ID)
	}
	return nil
}

func (r *PinRepo) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pins;`)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPin(s scanner) (*pinflow.Pin, error) {
	var (
		pin     pinflow.Pin
		created int64
	)
	err := s.Scan(&pin.ID, &pin.Keyword, &pin.Website, &pin.Image1, &pin.Image2, &pin.FinalImage, &created, &pin.UploadLink)
	if err != nil {
		return nil, err
	}
	pin.CreatedAt = time.Unix(0, created).UTC()
	return &pin, nil
}
