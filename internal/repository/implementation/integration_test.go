package implementation_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/migration"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/logger"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/contract"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/unitofwork"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/seed"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real Postgres. Set DB_CONNECTION_STRING to a disposable database.
func TestPostgresIntegration(t *testing.T) {
	if err := godotenv.Load("../../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)
	require.NoError(t, migration.Run(gormDB, func(message string) { t.Log(message) }))

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)

	t.Run("seed is idempotent", func(t *testing.T) {
		seeder := seed.NewSeeder(uowFactory, logger.NewNopLogger())
		_, err := seeder.Run(ctx, seed.DefaultOptions())
		require.NoError(t, err)

		steps, err := seeder.Run(ctx, seed.DefaultOptions())
		require.NoError(t, err)
		for _, step := range steps {
			if step.Kind != "notification type" {
				assert.False(t, step.Created, "%s %s created twice", step.Kind, step.Name)
			}
		}

		boks, err := uowFactory.NewUnitOfWork(ctx).ClassTypeRepository().FindByName(ctx, "Boks")
		require.NoError(t, err)
		require.NotNil(t, boks)
		assert.Equal(t, 150.0, boks.MonthlyPrice)
	})

	t.Run("duplicate email is reported as duplicate", func(t *testing.T) {
		email := "integration-" + uuid.NewString() + "@example.com"
		repo := uowFactory.NewUnitOfWork(ctx).UserRepository()
		newUser := func() *entity.User {
			return &entity.User{Email: email, PasswordHash: "x", FirstName: "Int", LastName: "Test", Role: entity.UserRoleUser, IsActive: true}
		}

		require.NoError(t, repo.Create(ctx, newUser()))
		assert.ErrorIs(t, repo.Create(ctx, newUser()), contract.ErrDuplicate)
	})

	t.Run("rollback discards writes", func(t *testing.T) {
		email := "rollback-" + uuid.NewString() + "@example.com"
		uow := uowFactory.NewUnitOfWork(ctx)
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.UserRepository().Create(ctx, &entity.User{Email: email, PasswordHash: "x", FirstName: "Roll", LastName: "Back", Role: entity.UserRoleUser, IsActive: true}))
		require.NoError(t, uow.Rollback())

		found, err := uowFactory.NewUnitOfWork(ctx).UserRepository().FindByEmail(ctx, email)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}
