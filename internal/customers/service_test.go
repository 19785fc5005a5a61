package customers

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revendedor/painel-backend/pkg/db/dbtest"
	"github.com/revendedor/painel-backend/pkg/db/models"
	pkgerrors "github.com/revendedor/painel-backend/pkg/errors"
)

func TestEnsureLinkedCreatesOnce(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.MustCreate(t, db, &models.User{ID: 9, FirstName: " Maria ", LastName: "Souza", Email: "maria@example.com"})

	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	created, err := svc.EnsureLinked(context.Background(), 1, 9)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureLinked(context.Background(), 1, 9)
	require.NoError(t, err)
	assert.False(t, created)

	var customers []models.Customer
	require.NoError(t, db.Find(&customers).Error)
	require.Len(t, customers, 1)
	assert.Equal(t, "Maria Souza", customers[0].Name)
}

func TestEnsureLinkedMissingUser(t *testing.T) {
	svc, err := NewService(NewRepository(dbtest.Open(t)))
	require.NoError(t, err)

	_, err = svc.EnsureLinked(context.Background(), 1, 77)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

type stubRepo struct {
	exists   func(ctx context.Context, resellerID, userID int64) (bool, error)
	findUser func(ctx context.Context, userID int64) (*models.User, error)
	create   func(ctx context.Context, customer *models.Customer) error
}

func (s stubRepo) Exists(ctx context.Context, resellerID, userID int64) (bool, error) {
	if s.exists == nil {
		panic("not implemented")
	}
	return s.exists(ctx, resellerID, userID)
}

func (s stubRepo) FindUser(ctx context.Context, userID int64) (*models.User, error) {
	if s.findUser == nil {
		panic("not implemented")
	}
	return s.findUser(ctx, userID)
}

func (s stubRepo) Create(ctx context.Context, customer *models.Customer) error {
	if s.create == nil {
		panic("not implemented")
	}
	return s.create(ctx, customer)
}

func TestEnsureLinkedTreatsConcurrentInsertAsLinked(t *testing.T) {
	repo := stubRepo{
		exists: func(context.Context, int64, int64) (bool, error) { return false, nil },
		findUser: func(context.Context, int64) (*models.User, error) {
			return &models.User{ID: 9, FirstName: "Maria"}, nil
		},
		create: func(context.Context, *models.Customer) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: uniqueCustomerConstraint}
		},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	created, err := svc.EnsureLinked(context.Background(), 1, 9)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestEnsureLinkedSurfacesStoreFailure(t *testing.T) {
	repo := stubRepo{
		exists: func(context.Context, int64, int64) (bool, error) { return false, errors.New("timeout") },
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.EnsureLinked(context.Background(), 1, 9)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}
