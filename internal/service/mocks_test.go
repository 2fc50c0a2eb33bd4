package service

import (
	"time"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/yourusername/karate-api/internal/domain/entity"
)

// ============================================================================
// Общие моки репозиториев для тестов сервисов.
// Используем testify/mock; один набор на пакет, чтобы избежать дублей.
// ============================================================================

// MockPerformanceRepo реализует repository.PerformanceRepository
type MockPerformanceRepo struct {
	mock.Mock
}

func (m *MockPerformanceRepo) CreateBatch(tx *gorm.DB, performances []entity.Performance) error {
	args := m.Called(tx, performances)
	return args.Error(0)
}

func (m *MockPerformanceRepo) GetByID(id uint) (*entity.Performance, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Performance), args.Error(1)
}

func (m *MockPerformanceRepo) GetByCategoryAndRound(categoryID uint, round string) ([]entity.Performance, error) {
	args := m.Called(categoryID, round)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Performance), args.Error(1)
}

func (m *MockPerformanceRepo) FindParticipantsInRound(categoryID uint, round string, participantIDs []uint) ([]uint, error) {
	args := m.Called(categoryID, round, participantIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockPerformanceRepo) GetForUpdate(tx *gorm.DB, id uint) (*entity.Performance, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Performance), args.Error(1)
}

func (m *MockPerformanceRepo) UpdateFinalScore(tx *gorm.DB, id uint, finalScore *float64) error {
	args := m.Called(tx, id, finalScore)
	return args.Error(0)
}

func (m *MockPerformanceRepo) UpdatePlaces(tx *gorm.DB, places map[uint]int) error {
	args := m.Called(tx, places)
	return args.Error(0)
}

func (m *MockPerformanceRepo) GetPlacements(categoryID uint) ([]entity.Performance, error) {
	args := m.Called(categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Performance), args.Error(1)
}

func (m *MockPerformanceRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockPerformanceRepo) DeleteByRound(categoryID uint, round string) error {
	args := m.Called(categoryID, round)
	return args.Error(0)
}

// MockKataScoreRepo реализует repository.KataScoreRepository
type MockKataScoreRepo struct {
	mock.Mock
}

func (m *MockKataScoreRepo) Upsert(tx *gorm.DB, score *entity.KataScore) error {
	args := m.Called(tx, score)
	return args.Error(0)
}

func (m *MockKataScoreRepo) ListByPerformance(tx *gorm.DB, performanceID uint) ([]entity.KataScore, error) {
	args := m.Called(tx, performanceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.KataScore), args.Error(1)
}

func (m *MockKataScoreRepo) DeleteByPerformanceAndJudge(tx *gorm.DB, performanceID, judgeID uint) error {
	args := m.Called(tx, performanceID, judgeID)
	return args.Error(0)
}

func (m *MockKataScoreRepo) DeleteByPerformance(performanceID uint) error {
	args := m.Called(performanceID)
	return args.Error(0)
}

func (m *MockKataScoreRepo) DeleteByRound(categoryID uint, round string) error {
	args := m.Called(categoryID, round)
	return args.Error(0)
}

// MockMatchRepo реализует repository.MatchRepository
type MockMatchRepo struct {
	mock.Mock
}

func (m *MockMatchRepo) CreateBatch(tx *gorm.DB, matches []entity.Match) error {
	args := m.Called(tx, matches)
	return args.Error(0)
}

func (m *MockMatchRepo) GetByID(id uint) (*entity.Match, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Match), args.Error(1)
}

func (m *MockMatchRepo) GetByCategoryAndRound(categoryID uint, round string) ([]entity.Match, error) {
	args := m.Called(categoryID, round)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Match), args.Error(1)
}

func (m *MockMatchRepo) FindParticipantsInRound(categoryID uint, round string, participantIDs []uint) ([]uint, error) {
	args := m.Called(categoryID, round, participantIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockMatchRepo) SetWinner(id uint, winnerID uint) error {
	args := m.Called(id, winnerID)
	return args.Error(0)
}

func (m *MockMatchRepo) UpdateStatus(id uint, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockMatchRepo) Reopen(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockMatchRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockMatchRepo) DeleteByRound(categoryID uint, round string) error {
	args := m.Called(categoryID, round)
	return args.Error(0)
}

// MockKumiteTallyRepo реализует repository.KumiteTallyRepository
type MockKumiteTallyRepo struct {
	mock.Mock
}

func (m *MockKumiteTallyRepo) GetByMatch(matchID uint) ([]entity.KumiteTally, error) {
	args := m.Called(matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.KumiteTally), args.Error(1)
}

func (m *MockKumiteTallyRepo) GetForUpdate(tx *gorm.DB, matchID, participantID uint) (*entity.KumiteTally, error) {
	args := m.Called(tx, matchID, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.KumiteTally), args.Error(1)
}

func (m *MockKumiteTallyRepo) Save(tx *gorm.DB, tally *entity.KumiteTally) error {
	args := m.Called(tx, tally)
	return args.Error(0)
}

func (m *MockKumiteTallyRepo) DeleteByMatch(matchID uint) error {
	args := m.Called(matchID)
	return args.Error(0)
}

// MockParticipantRepo реализует repository.ParticipantRepository
type MockParticipantRepo struct {
	mock.Mock
}

func (m *MockParticipantRepo) GetByID(id uint) (*entity.Participant, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Participant), args.Error(1)
}

func (m *MockParticipantRepo) GetByIDs(ids []uint) ([]entity.Participant, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Participant), args.Error(1)
}

func (m *MockParticipantRepo) GetByCategory(categoryID uint) ([]entity.Participant, error) {
	args := m.Called(categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Participant), args.Error(1)
}

// MockCategoryRepo реализует repository.CategoryRepository
type MockCategoryRepo struct {
	mock.Mock
}

func (m *MockCategoryRepo) GetByID(id uint) (*entity.Category, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

// MockFinalizationRepo реализует repository.RoundFinalizationRepository
type MockFinalizationRepo struct {
	mock.Mock
}

func (m *MockFinalizationRepo) Get(categoryID uint, round string) (*entity.RoundFinalization, error) {
	args := m.Called(categoryID, round)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RoundFinalization), args.Error(1)
}

func (m *MockFinalizationRepo) Create(tx *gorm.DB, finalization *entity.RoundFinalization) error {
	args := m.Called(tx, finalization)
	return args.Error(0)
}

func (m *MockFinalizationRepo) Delete(categoryID uint, round string) error {
	args := m.Called(categoryID, round)
	return args.Error(0)
}

// MockCacheRepo реализует repository.CacheRepository
type MockCacheRepo struct {
	mock.Mock
}

func (m *MockCacheRepo) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepo) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func (m *MockCacheRepo) SetNX(key string, value interface{}, expiration time.Duration) (bool, error) {
	args := m.Called(key, value, expiration)
	return args.Bool(0), args.Error(1)
}
