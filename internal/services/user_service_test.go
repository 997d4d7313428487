package services

import (
	"context"
	"testing"

	"github.com/hellowhq67/pte-practice-service/internal/models"
	"github.com/hellowhq67/pte-practice-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserFixture(t *testing.T) (*MockUserRepository, UserService) {
	t.Helper()
	users := new(MockUserRepository)
	svc := NewUserService(users, testLogger(), utils.NewValidator())
	return users, svc
}

func TestCreateUser(t *testing.T) {
	users, svc := newUserFixture(t)

	users.On("ExistsByID", mock.Anything, "auth0|alice").Return(false, nil)
	users.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, gorm.ErrRecordNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.ID == "auth0|alice" && u.IsActive
	})).Return(nil)

	target := 79
	user, err := svc.Create(context.Background(), &CreateUserRequest{
		ID:          "auth0|alice",
		FullName:    "Alice Tan",
		Email:       "alice@example.com",
		TargetScore: &target,
	})
	require.NoError(t, err)
	assert.Equal(t, "auth0|alice", user.ID)
	assert.True(t, user.IsActive)
	users.AssertExpectations(t)
}

func TestCreateUser_Duplicate(t *testing.T) {
	users, svc := newUserFixture(t)

	users.On("ExistsByID", mock.Anything, "auth0|alice").Return(true, nil)

	_, err := svc.Create(context.Background(), &CreateUserRequest{
		ID:       "auth0|alice",
		FullName: "Alice Tan",
		Email:    "alice@example.com",
	})
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateUser_TargetScoreOffScale(t *testing.T) {
	_, svc := newUserFixture(t)

	target := 95
	_, err := svc.Create(context.Background(), &CreateUserRequest{
		ID:          "auth0|alice",
		FullName:    "Alice Tan",
		Email:       "alice@example.com",
		TargetScore: &target,
	})
	require.Error(t, err)

	var ve ValidationErrors
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve, 1)
	assert.Equal(t, "target_score", ve[0].Field)
	assert.Equal(t, "must be between 10 and 90", ve[0].Message)
}

func TestUpdateUser_EmailTaken(t *testing.T) {
	users, svc := newUserFixture(t)

	users.On("GetByID", mock.Anything, "auth0|alice").Return(&models.User{
		ID:    "auth0|alice",
		Email: "alice@example.com",
	}, nil)
	users.On("GetByEmail", mock.Anything, "bob@example.com").Return(&models.User{ID: "auth0|bob"}, nil)

	email := "bob@example.com"
	_, err := svc.Update(context.Background(), "auth0|alice", &UpdateUserRequest{Email: &email})
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestGetUser_NotFound(t *testing.T) {
	users, svc := newUserFixture(t)

	users.On("GetByID", mock.Anything, "missing").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
