package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/recipai/internal/model"
)

func newMockRepository(t *testing.T) (*StateRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStateRepository(&Connection{DB: db}, "recipai"), mock
}

func TestNewStateRepository(t *testing.T) {
	db := &Connection{}
	repo := NewStateRepository(db, "ns")

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
	assert.Equal(t, "ns", repo.namespace)
}

func TestStateRepository_Get(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT value FROM client_state WHERE namespace = $1 AND key = $2`)

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		want    []byte
		wantErr error
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs("recipai", model.KeyPantryItems).
					WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`["milk"]`)))
			},
			want: []byte(`["milk"]`),
		},
		{
			name: "missing",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs("recipai", model.KeyPantryItems).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: model.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			tt.setup(mock)

			got, err := repo.Get(context.Background(), model.KeyPantryItems)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStateRepository_Get_DBError(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery("SELECT value FROM client_state").WillReturnError(errors.New("conn reset"))

	_, err := repo.Get(context.Background(), model.KeyToken)
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrNotFound)
	assert.Contains(t, err.Error(), "failed to get token")
}

func TestStateRepository_Set(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec("INSERT INTO client_state").
		WithArgs("recipai", model.KeyToken, []byte("tok")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Set(context.Background(), model.KeyToken, []byte("tok")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStateRepository_Set_Error(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec("INSERT INTO client_state").WillReturnError(errors.New("read only"))

	err := repo.Set(context.Background(), model.KeyToken, []byte("tok"))
	assert.ErrorContains(t, err, "failed to set token")
}

func TestStateRepository_Delete(t *testing.T) {
	repo, mock := newMockRepository(t)
	query := regexp.QuoteMeta(`DELETE FROM client_state WHERE namespace = $1 AND key = $2`)

	mock.ExpectBegin()
	for _, key := range model.SessionKeys {
		mock.ExpectExec(query).WithArgs("recipai", key).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), model.SessionKeys...))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStateRepository_Delete_RollsBack(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM client_state").WithArgs("recipai", model.KeyToken).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM client_state").WithArgs("recipai", model.KeyUserEmail).WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), model.SessionKeys...)
	assert.ErrorContains(t, err, "failed to delete userEmail")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStateRepository_Delete_NoKeys(t *testing.T) {
	repo, mock := newMockRepository(t)
	require.NoError(t, repo.Delete(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
