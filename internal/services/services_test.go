package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/idea-tracker/internal/database"
	"github.com/yukikurage/idea-tracker/internal/models"
	"github.com/yukikurage/idea-tracker/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type serviceTestEnv struct {
	db          *gorm.DB
	ctx         context.Context
	ideaRepo    repository.IdeaRepository
	userRepo    repository.UserRepository
	authService *AuthService
	ideaService *IdeaService
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))

	ideaRepo := repository.NewIdeaRepository(db)
	userRepo := repository.NewUserRepository(db)

	return serviceTestEnv{
		db:          db,
		ctx:         context.Background(),
		ideaRepo:    ideaRepo,
		userRepo:    userRepo,
		authService: NewAuthService(userRepo),
		ideaService: NewIdeaService(ideaRepo, userRepo, nil),
	}
}

func (env serviceTestEnv) register(t *testing.T, username string) *models.User {
	t.Helper()

	user, err := env.authService.Register(env.ctx, RegisterInput{
		Username: username,
		Password: "password",
	})
	require.NoError(t, err)
	return user
}

func (env serviceTestEnv) countCollaborations(t *testing.T, ideaID uint64) int64 {
	t.Helper()

	var count int64
	require.NoError(t, env.db.Model(&models.Collaboration{}).Where("idea_id = ?", ideaID).Count(&count).Error)
	return count
}
