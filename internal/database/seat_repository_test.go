package database

import (
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/smarttransit/route-booking/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seatRowColumns = []string{"route_id", "seat_id", "status", "reserved_by"}

func TestSeatRepository_ListByRoute(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeatRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM seats WHERE route_id = \$1 ORDER BY seat_no`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(seatRowColumns).
			AddRow(1, "S1", "Available", nil).
			AddRow(1, "S2", "Booked", nil).
			AddRow(1, "S3", "Reserved", "u9"))

	seats, err := repo.ListByRoute(1)
	require.NoError(t, err)
	require.Len(t, seats, 3)
	assert.Equal(t, models.SeatStatusBooked, seats[1].Status)
	require.NotNil(t, seats[2].ReservedBy)
	assert.Equal(t, "u9", *seats[2].ReservedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepository_ListByStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeatRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM seats WHERE route_id = \$1 AND status = \$2`).
			WithArgs(1, "Booked").
			WillReturnRows(sqlmock.NewRows(seatRowColumns).AddRow(1, "S2", "Booked", nil))

		seats, err := repo.ListByStatus(1, models.SeatStatusBooked)
		require.NoError(t, err)
		assert.Len(t, seats, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM seats`).
			WillReturnError(fmt.Errorf("connection reset"))

		_, err := repo.ListByStatus(1, models.SeatStatusAvailable)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list Available seats")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSeatRepository_Stats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeatRepository(db)

	mock.ExpectQuery(`COUNT\(\*\) FILTER`).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"total", "available", "booked", "reserved"}).AddRow(40, 35, 4, 1))

	stats, err := repo.Stats(4)
	require.NoError(t, err)
	assert.Equal(t, models.SeatStats{Total: 40, Available: 35, Booked: 4, Reserved: 1}, *stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepository_InitSeats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeatRepository(db)

	mock.ExpectExec(`INSERT INTO seats`).
		WithArgs(5, 40).
		WillReturnResult(sqlmock.NewResult(0, 12))

	created, err := repo.InitSeats(5, 40)
	require.NoError(t, err)
	assert.Equal(t, int64(12), created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepository_Reserve(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeatRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE seats`).
			WithArgs(1, "S4", "u1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Reserve(1, "S4", "u1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Seat Taken", func(t *testing.T) {
		mock.ExpectExec(`UPDATE seats`).
			WithArgs(1, "S4", "u2").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Reserve(1, "S4", "u2")
		assert.EqualError(t, err, "Seat S4 is not available")
		assert.True(t, IsSeatConflict(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSeatRepository_Release(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeatRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE seats`).
			WithArgs(1, "S4", "u1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Release(1, "S4", "u1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Held By Someone Else", func(t *testing.T) {
		mock.ExpectExec(`UPDATE seats`).
			WithArgs(1, "S4", "u2").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Release(1, "S4", "u2"), ErrSeatNotHeld)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
