package implementation

import (
	"context"
	"errors"
	"testing"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/contract"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := database.Open(postgres.New(postgres.Config{Conn: sqlDB, DriverName: "postgres"}), logger.Silent)
	require.NoError(t, err)
	return db, mock
}

func TestTranslateError(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "nil", in: nil, want: nil},
		{name: "gorm duplicate", in: gorm.ErrDuplicatedKey, want: contract.ErrDuplicate},
		{name: "postgres unique violation", in: &pgconn.PgError{Code: "23505"}, want: contract.ErrDuplicate},
		{name: "other postgres error", in: &pgconn.PgError{Code: "23503"}},
		{name: "passthrough", in: other, want: other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.in)
			if tt.want == nil && tt.in != nil {
				assert.NotErrorIs(t, got, contract.ErrDuplicate)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserRepository_FindByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE LOWER\(email\) = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "first_name", "last_name", "role", "is_active"}).
			AddRow(id.String(), "jan@example.com", "Jan", "Kowalski", "TRENER", true))

	user, err := repo.FindByEmail(context.Background(), "Jan@Example.com")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, id, user.Id)
	assert.Equal(t, entity.UserRoleTrainer, user.Role)
	assert.True(t, user.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, err := repo.FindByEmail(context.Background(), "ghost@example.com")

	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindById_PropagatesErrors(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	boom := errors.New("connection reset")

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).WillReturnError(boom)

	user, err := repo.FindById(context.Background(), uuid.New())

	assert.ErrorIs(t, err, boom)
	assert.Nil(t, user)
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &entity.User{
		Email:        "jan@example.com",
		PasswordHash: "hash",
		FirstName:    "Jan",
		LastName:     "Kowalski",
		Role:         entity.UserRoleUser,
		IsActive:     true,
	})

	assert.ErrorIs(t, err, contract.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_DeleteAllRefreshTokens(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	userId := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "refresh_tokens" WHERE user_id = \$1`).
		WithArgs(userId).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteAllRefreshTokens(context.Background(), userId))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepository_CountActiveMembersByClassType(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubscriptionRepository(db)
	boks, mma := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT class_types.id AS class_type_id, .* FROM "subscriptions" JOIN class_types .* GROUP BY class_types.id, class_types.name ORDER BY class_types.name`).
		WithArgs(string(entity.SubscriptionStatusActive), string(entity.UserRoleUser)).
		WillReturnRows(sqlmock.NewRows([]string{"class_type_id", "class_type_name", "active_members"}).
			AddRow(boks.String(), "Boks", 3).
			AddRow(mma.String(), "MMA", 1))

	stats, err := repo.CountActiveMembersByClassType(context.Background())

	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, contract.ClassTypeMemberStat{ClassTypeId: boks, ClassTypeName: "Boks", ActiveMembers: 3}, stats[0])
	assert.Equal(t, "MMA", stats[1].ClassTypeName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
