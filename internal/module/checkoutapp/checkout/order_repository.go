package checkout

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/differentroads/dr-checkout/pkg/errors"
	"github.com/differentroads/dr-checkout/pkg/status"
)

// OrderSnapshot is the persisted view of a session's order: the priced
// summary plus traveler data, kept as the budget of record until the booking
// backend confirms it.
type OrderSnapshot struct {
	ID          string
	SessionID   string
	AccountID   string
	TourID      string
	TourName    string
	PeriodID    string
	Status      string
	BookingID   string
	BookingCode string
	Subtotal    float64
	Total       float64
	Summary     []LineItem
	Travelers   []Traveler
}

type OrderSnapshotRepository interface {
	Save(ctx context.Context, snapshot OrderSnapshot, tx *sql.Tx) error
	Update(ctx context.Context, ID string, snapshot OrderSnapshot, tx *sql.Tx) error
	FindByID(ctx context.Context, ID string, tx *sql.Tx) (OrderSnapshot, error)
}

type sqlCommand interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

type orderSnapshotRepository struct {
	logger *logrus.Logger
	db     *sql.DB
}

func NewOrderSnapshotRepository(logger *logrus.Logger, db *sql.DB) OrderSnapshotRepository {
	return &orderSnapshotRepository{
		logger: logger,
		db:     db,
	}
}

// Save implements OrderSnapshotRepository.
func (r *orderSnapshotRepository) Save(ctx context.Context, snapshot OrderSnapshot, tx *sql.Tx) error {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		INSERT INTO order_snapshot
		(
			id, session_id, account_id, tour_id, tour_name, period_id,
			status, booking_id, booking_code, subtotal, total, summary, travelers
		)
		VALUES
		(
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			booking_id = EXCLUDED.booking_id,
			booking_code = EXCLUDED.booking_code,
			subtotal = EXCLUDED.subtotal,
			total = EXCLUDED.total,
			summary = EXCLUDED.summary,
			travelers = EXCLUDED.travelers
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving the order snapshot")
	}
	defer stmt.Close()

	summaryBuff, _ := json.Marshal(snapshot.Summary)
	travelersBuff, _ := json.Marshal(snapshot.Travelers)

	_, err = stmt.ExecContext(ctx,
		snapshot.ID, snapshot.SessionID, snapshot.AccountID, snapshot.TourID, snapshot.TourName, snapshot.PeriodID,
		snapshot.Status, snapshot.BookingID, snapshot.BookingCode, snapshot.Subtotal, snapshot.Total, summaryBuff, travelersBuff,
	)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving the order snapshot")
	}

	return nil
}

// Update implements OrderSnapshotRepository.
func (r *orderSnapshotRepository) Update(ctx context.Context, ID string, snapshot OrderSnapshot, tx *sql.Tx) error {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		UPDATE order_snapshot
		SET
			status = $1,
			booking_id = $2,
			booking_code = $3,
			subtotal = $4,
			total = $5,
			summary = $6,
			travelers = $7
		WHERE id = $8
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while updating the order snapshot")
	}
	defer stmt.Close()

	summaryBuff, _ := json.Marshal(snapshot.Summary)
	travelersBuff, _ := json.Marshal(snapshot.Travelers)

	_, err = stmt.ExecContext(ctx,
		snapshot.Status, snapshot.BookingID, snapshot.BookingCode, snapshot.Subtotal, snapshot.Total, summaryBuff, travelersBuff, ID,
	)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while updating the order snapshot")
	}

	return nil
}

// FindByID implements OrderSnapshotRepository.
func (r *orderSnapshotRepository) FindByID(ctx context.Context, ID string, tx *sql.Tx) (OrderSnapshot, error) {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		SELECT
			id, session_id, account_id, tour_id, tour_name, period_id,
			status, booking_id, booking_code, subtotal, total, summary, travelers
		FROM order_snapshot
		WHERE
			id = $1
		LIMIT 1
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return OrderSnapshot{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting the order snapshot")
	}
	defer stmt.Close()

	row := stmt.QueryRowContext(ctx, ID)

	var data OrderSnapshot
	var summaryBuff, travelersBuff []byte

	err = row.Scan(
		&data.ID, &data.SessionID, &data.AccountID, &data.TourID, &data.TourName, &data.PeriodID,
		&data.Status, &data.BookingID, &data.BookingCode, &data.Subtotal, &data.Total, &summaryBuff, &travelersBuff,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return OrderSnapshot{}, errors.New(http.StatusNotFound, status.NOT_FOUND, fmt.Sprintf("order snapshot with id '%s' is not found", ID))
		}
		r.logger.WithContext(ctx).WithError(err).Error()
		return OrderSnapshot{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting the order snapshot")
	}

	json.Unmarshal(summaryBuff, &data.Summary)
	json.Unmarshal(travelersBuff, &data.Travelers)

	return data, nil
}
