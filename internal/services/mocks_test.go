package services

import (
	"context"

	"github.com/hellowhq67/pte-practice-service/internal/models"
	"github.com/hellowhq67/pte-practice-service/internal/repositories"
	"github.com/stretchr/testify/mock"
)

// MockQuestionRepository is a mock implementation of QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) Update(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) CreateBatch(ctx context.Context, questions []*models.Question) error {
	args := m.Called(ctx, questions)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Question), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionRepository) GetBySection(ctx context.Context, section models.Section, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	args := m.Called(ctx, section, filters)
	return args.Get(0).([]*models.Question), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionRepository) GetByType(ctx context.Context, taskType models.TaskType, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	args := m.Called(ctx, taskType, filters)
	return args.Get(0).([]*models.Question), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionRepository) GetRandomQuestions(ctx context.Context, filters repositories.RandomQuestionFilters) ([]*models.Question, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetQuestionStats(ctx context.Context, id uint) (*repositories.QuestionStats, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*repositories.QuestionStats), args.Error(1)
}

func (m *MockQuestionRepository) CountByType(ctx context.Context) (map[models.TaskType]int, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[models.TaskType]int), args.Error(1)
}

// MockAttemptRepository is a mock implementation of AttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Create(ctx context.Context, attempt *models.PracticeAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) GetByID(ctx context.Context, id uint) (*models.PracticeAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PracticeAttempt), args.Error(1)
}

func (m *MockAttemptRepository) GetByIDWithQuestion(ctx context.Context, id uint) (*models.PracticeAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PracticeAttempt), args.Error(1)
}

func (m *MockAttemptRepository) Update(ctx context.Context, attempt *models.PracticeAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAttemptRepository) List(ctx context.Context, filters repositories.AttemptFilters) ([]*models.PracticeAttempt, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.PracticeAttempt), args.Get(1).(int64), args.Error(2)
}

func (m *MockAttemptRepository) GetByUser(ctx context.Context, userID string, filters repositories.AttemptFilters) ([]*models.PracticeAttempt, int64, error) {
	args := m.Called(ctx, userID, filters)
	return args.Get(0).([]*models.PracticeAttempt), args.Get(1).(int64), args.Error(2)
}

func (m *MockAttemptRepository) GetByQuestion(ctx context.Context, questionID uint, filters repositories.AttemptFilters) ([]*models.PracticeAttempt, int64, error) {
	args := m.Called(ctx, questionID, filters)
	return args.Get(0).([]*models.PracticeAttempt), args.Get(1).(int64), args.Error(2)
}

func (m *MockAttemptRepository) GetUserStats(ctx context.Context, userID string) (*repositories.UserPracticeStats, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(*repositories.UserPracticeStats), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
