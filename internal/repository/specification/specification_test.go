package specification

import (
	"testing"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DryRun: true,
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestAll_AppliesInOrder(t *testing.T) {
	db := dryRunDB(t)
	userId := uuid.New()

	var rows []model.Subscription
	stmt := All{
		UserOwnedBy{UserID: userId},
		Filter("status", "active"),
		OrderBy{Field: "created_at", Desc: true},
		Pagination{Limit: 10, Offset: 20},
	}.Apply(db.Model(&model.Subscription{})).Find(&rows).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, `FROM "subscriptions" WHERE user_id = $1 AND status = $2`)
	assert.Contains(t, sql, "ORDER BY created_at DESC")
	assert.Equal(t, []interface{}{userId, "active"}, stmt.Vars[:2])
}

func TestAll_EmptyIsNoop(t *testing.T) {
	db := dryRunDB(t)

	var rows []model.User
	sql := All(nil).Apply(db.Model(&model.User{})).Find(&rows).Statement.SQL.String()

	assert.Equal(t, `SELECT * FROM "users"`, sql)
}
