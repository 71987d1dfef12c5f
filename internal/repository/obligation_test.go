package repository

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedrovi35/SistemaFiscal-sub000/internal/model"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestMarkOverdue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewObligationRepository(db, DriverPostgres, testLogger())
	before := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE obligations").
		WithArgs(string(model.StatusOverdue), sqlmock.AnyArg(), string(model.StatusPending), before).
		WillReturnResult(sqlmock.NewResult(0, 3))

	affected, err := repo.MarkOverdue(context.Background(), before)
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkOverdueReportsRowsAffectedError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewObligationRepository(db, DriverPostgres, testLogger())
	before := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE obligations").
		WithArgs(string(model.StatusOverdue), sqlmock.AnyArg(), string(model.StatusPending), before).
		WillReturnResult(sqlmock.NewErrorResult(fmt.Errorf("driver sem suporte a RowsAffected")))

	_, err = repo.MarkOverdue(context.Background(), before)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
