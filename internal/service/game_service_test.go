package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/yourusername/trivia-backend/internal/domain/entity"
	"github.com/yourusername/trivia-backend/internal/domain/repository"
	apperrors "github.com/yourusername/trivia-backend/internal/pkg/errors"
	redisrepo "github.com/yourusername/trivia-backend/internal/repository/redis"
)

type GameServiceSuite struct {
	suite.Suite
	mini         *miniredis.Miniredis
	questionRepo *MockQuestionRepo
	scoreRepo    *MockScoreRepo
	userRepo     *MockUserRepo
	svc          *GameService
	ctx          context.Context
	questions    []entity.Question
	user         *entity.User
}

func TestGameServiceSuite(t *testing.T) {
	suite.Run(t, new(GameServiceSuite))
}

func (s *GameServiceSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())
	cache, err := redisrepo.NewCacheRepo(redis.NewClient(&redis.Options{Addr: s.mini.Addr()}))
	s.Require().NoError(err)

	s.questionRepo = new(MockQuestionRepo)
	s.scoreRepo = new(MockScoreRepo)
	s.userRepo = new(MockUserRepo)
	s.ctx = context.Background()
	s.user = &entity.User{ID: 1, Username: "player"}

	s.questions = []entity.Question{
		{ID: 10, Text: "Capital of France?", CorrectAnswer: "Paris", IncorrectAnswers: entity.StringArray{"Rome"}},
		{ID: 11, Text: "2+2?", CorrectAnswer: "4", IncorrectAnswers: entity.StringArray{"5"}},
	}
	for i := range s.questions {
		q := s.questions[i]
		s.questionRepo.On("GetByID", mock.Anything, q.ID).Return(&q, nil).Maybe()
	}
	s.userRepo.On("GetByID", mock.Anything, uint(1)).Return(s.user, nil).Maybe()

	questionSvc, err := NewQuestionService(s.questionRepo, cache, 10, 50, time.Minute)
	s.Require().NoError(err)
	scoreSvc, err := NewScoreService(s.scoreRepo, nil, 50, 20)
	s.Require().NoError(err)
	resolver, err := NewIdentityResolver(s.userRepo)
	s.Require().NoError(err)

	s.svc, err = NewGameService(questionSvc, scoreSvc, resolver, cache, time.Hour)
	s.Require().NoError(err)
}

func (s *GameServiceSuite) startGame() *GameState {
	s.questionRepo.On("FindRandom", mock.Anything, repository.QuestionFilter{Category: "General"}, 2).
		Return(s.questions, nil).Once()

	state, err := s.svc.Start(s.ctx, 1, StartGameInput{Category: "General", Amount: 2})
	s.Require().NoError(err)
	return state
}

func (s *GameServiceSuite) TestStart() {
	state := s.startGame()

	s.NotEmpty(state.Session.ID)
	s.Equal([]uint{10, 11}, state.Session.QuestionIDs)
	s.Equal(uint(10), state.Question.ID, "Первый вопрос отдаётся сразу")
	s.True(s.mini.Exists(gameSessionKeyPrefix + state.Session.ID))
	s.Equal(time.Hour, s.mini.TTL(gameSessionKeyPrefix+state.Session.ID))
}

func (s *GameServiceSuite) TestStart_NoQuestions() {
	s.questionRepo.On("FindRandom", mock.Anything, repository.QuestionFilter{Category: "Empty"}, 10).
		Return([]entity.Question{}, nil).Once()

	_, err := s.svc.Start(s.ctx, 1, StartGameInput{Category: "Empty"})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *GameServiceSuite) TestFullGameSubmitsScore() {
	state := s.startGame()

	var saved *entity.Score
	s.scoreRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Score")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*entity.Score)
			saved.ID = 77
		}).
		Return(nil).Once()

	// Act: один правильный и один неправильный ответ
	first, err := s.svc.Answer(s.ctx, 1, state.Session.ID, " Paris ")
	s.Require().NoError(err)
	s.True(first.Correct)
	s.False(first.Finished)
	s.Equal(uint(11), first.State.Question.ID)

	second, err := s.svc.Answer(s.ctx, 1, state.Session.ID, "5")
	s.Require().NoError(err)

	// Assert
	s.False(second.Correct)
	s.Equal("4", second.CorrectAnswer)
	s.True(second.Finished)
	s.Nil(second.State.Question, "У законченной игры нет текущего вопроса")
	s.Require().NotNil(second.State.Session.ScoreID)
	s.Equal(uint(77), *second.State.Session.ScoreID)

	s.Require().NotNil(saved)
	s.Equal("player", *saved.PlayerName)
	s.Equal(1, saved.NormalScore)
	s.Equal(saved.NormalScore, saved.Score)
	s.Equal(2, *saved.QuestionsAnswered)
	s.Equal(1, *saved.QuestionsCorrect)
	s.Equal("General", *saved.Category)

	_, err = s.svc.Answer(s.ctx, 1, state.Session.ID, "anything")
	s.ErrorIs(err, apperrors.ErrConflict, "Законченная игра не принимает ответы")
	s.scoreRepo.AssertNumberOfCalls(s.T(), "Create", 1)
}

func (s *GameServiceSuite) TestForeignGameForbidden() {
	state := s.startGame()

	_, err := s.svc.Get(s.ctx, 2, state.Session.ID)
	s.ErrorIs(err, apperrors.ErrForbidden)

	_, err = s.svc.Answer(s.ctx, 2, state.Session.ID, "Paris")
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *GameServiceSuite) TestAnswerWhileLocked() {
	state := s.startGame()
	s.Require().NoError(s.mini.Set(gameLockKeyPrefix+state.Session.ID, "1"))

	_, err := s.svc.Answer(s.ctx, 1, state.Session.ID, "Paris")
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *GameServiceSuite) TestExpiredSession() {
	state := s.startGame()
	s.mini.FastForward(2 * time.Hour)

	_, err := s.svc.Get(s.ctx, 1, state.Session.ID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *GameServiceSuite) TestFinish_SessionLostBeforeScore() {
	state := s.startGame()
	_, err := s.svc.Answer(s.ctx, 1, state.Session.ID, "Paris")
	s.Require().NoError(err)

	// Сессия пропадает из Redis, пока обрабатывается последний ответ
	last := s.questions[1]
	s.questionRepo.ExpectedCalls = nil
	s.questionRepo.On("GetByID", mock.Anything, last.ID).
		Run(func(mock.Arguments) { s.mini.Del(gameSessionKeyPrefix + state.Session.ID) }).
		Return(&last, nil).Once()

	_, err = s.svc.Answer(s.ctx, 1, state.Session.ID, "4")

	s.ErrorIs(err, apperrors.ErrNotFound)
	s.scoreRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *GameServiceSuite) TestFinish_RetryAfterSubmitFailureDoesNotDuplicate() {
	state := s.startGame()
	s.scoreRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Score")).
		Return(errors.New("db down")).Once()

	_, err := s.svc.Answer(s.ctx, 1, state.Session.ID, "Paris")
	s.Require().NoError(err)
	_, err = s.svc.Answer(s.ctx, 1, state.Session.ID, "4")
	s.Require().Error(err)

	// Act: клиент повторяет последний ответ
	_, err = s.svc.Answer(s.ctx, 1, state.Session.ID, "4")

	// Assert
	s.ErrorIs(err, apperrors.ErrConflict, "Сессия уже помечена законченной")
	s.scoreRepo.AssertNumberOfCalls(s.T(), "Create", 1)

	stored, err := s.svc.Get(s.ctx, 1, state.Session.ID)
	s.Require().NoError(err)
	s.NotNil(stored.Session.FinishedAt)
	s.Nil(stored.Session.ScoreID)
}
