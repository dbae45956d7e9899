package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/trivia-backend/internal/domain/entity"
	"github.com/yourusername/trivia-backend/internal/domain/repository"
	"github.com/yourusername/trivia-backend/internal/metrics"
	apperrors "github.com/yourusername/trivia-backend/internal/pkg/errors"
)

const (
	gameSessionKeyPrefix = "game:session:"
	gameLockKeyPrefix    = "game:lock:"
	gameLockTTL          = 10 * time.Second
)

// StartGameInput - параметры новой игры
type StartGameInput struct {
	Category   string
	Difficulty *int
	Amount     int
}

// GameState - состояние игры и текущий вопрос (nil, если игра окончена)
type GameState struct {
	Session  *entity.GameSession
	Question *entity.Question
}

// AnswerResult - итог ответа на вопрос
type AnswerResult struct {
	Correct       bool
	CorrectAnswer string
	Finished      bool
	State         *GameState
}

// GameService ведёт игровые сессии в Redis и сохраняет результат по окончании
type GameService struct {
	questions  *QuestionService
	scores     *ScoreService
	resolver   *IdentityResolver
	cacheRepo  repository.CacheRepository
	sessionTTL time.Duration
	now        func() time.Time
}

// NewGameService создает игровой сервис
func NewGameService(
	questions *QuestionService,
	scores *ScoreService,
	resolver *IdentityResolver,
	cacheRepo repository.CacheRepository,
	sessionTTL time.Duration,
) (*GameService, error) {
	if questions == nil || scores == nil || resolver == nil {
		return nil, errors.New("question, score and identity services are required")
	}
	if cacheRepo == nil {
		return nil, errors.New("cacheRepo is required")
	}
	if sessionTTL <= 0 {
		sessionTTL = 2 * time.Hour
	}
	return &GameService{
		questions:  questions,
		scores:     scores,
		resolver:   resolver,
		cacheRepo:  cacheRepo,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}, nil
}

// Start создаёт игру из случайных вопросов
func (s *GameService) Start(ctx context.Context, userID uint, input StartGameInput) (*GameState, error) {
	questions, err := s.questions.Random(ctx, repository.QuestionFilter{
		Category:   input.Category,
		Difficulty: input.Difficulty,
	}, input.Amount)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions match the filter", apperrors.ErrNotFound)
	}

	ids := make([]uint, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}

	session := &entity.GameSession{
		ID:          uuid.NewString(),
		UserID:      userID,
		QuestionIDs: ids,
		Category:    input.Category,
		Difficulty:  input.Difficulty,
		StartedAt:   s.now().UTC(),
	}
	if err := s.cacheRepo.SetJSON(ctx, gameSessionKeyPrefix+session.ID, session, s.sessionTTL); err != nil {
		return nil, fmt.Errorf("failed to save game session: %w", err)
	}

	metrics.GamesStarted.Inc()
	log.Printf("[GameService] Game %s started by user %d with %d questions", session.ID, userID, len(ids))

	return &GameState{Session: session, Question: &questions[0]}, nil
}

// Get возвращает состояние игры владельцу
func (s *GameService) Get(ctx context.Context, userID uint, gameID string) (*GameState, error) {
	session, err := s.load(ctx, userID, gameID)
	if err != nil {
		return nil, err
	}
	return s.state(ctx, session)
}

// Answer принимает ответ на текущий вопрос.
// После последнего вопроса результат сохраняется через ScoreService.
func (s *GameService) Answer(ctx context.Context, userID uint, gameID, answer string) (*AnswerResult, error) {
	locked, err := s.cacheRepo.SetNX(ctx, gameLockKeyPrefix+gameID, userID, gameLockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to lock game session: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: answer is already being processed", apperrors.ErrConflict)
	}
	defer func() {
		if err := s.cacheRepo.Delete(context.Background(), gameLockKeyPrefix+gameID); err != nil {
			log.Printf("[GameService] Ошибка снятия блокировки игры %s: %v", gameID, err)
		}
	}()

	session, err := s.load(ctx, userID, gameID)
	if err != nil {
		return nil, err
	}

	questionID, ok := session.CurrentQuestionID()
	if !ok {
		return nil, fmt.Errorf("%w: game already finished", apperrors.ErrConflict)
	}

	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load question %d: %w", questionID, err)
	}

	correct := question.IsCorrect(answer)
	session.RecordAnswer(correct)

	finished := session.IsFinished()
	if finished {
		finishedAt := s.now().UTC()
		session.FinishedAt = &finishedAt
	}

	// Законченная сессия сохраняется до записи результата:
	// повторный ответ получает Conflict, результат пишется не больше одного раза
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	if finished {
		if err := s.finish(ctx, session); err != nil {
			return nil, err
		}
	}

	state, err := s.state(ctx, session)
	if err != nil {
		return nil, err
	}
	return &AnswerResult{
		Correct:       correct,
		CorrectAnswer: question.CorrectAnswer,
		Finished:      session.IsFinished(),
		State:         state,
	}, nil
}

func (s *GameService) finish(ctx context.Context, session *entity.GameSession) error {
	author, err := s.resolver.ResolveAuthor(ctx, session.UserID)
	if err != nil {
		return err
	}

	points := session.Score
	answered := session.Answered()
	correctCount := session.CorrectAnswers
	payload := ScoreSubmission{
		NormalScore:       &points,
		Difficulty:        session.Difficulty,
		QuestionsAnswered: &answered,
		QuestionsCorrect:  &correctCount,
	}
	if session.Category != "" {
		category := session.Category
		payload.Category = &category
	}

	score, err := s.scores.Submit(ctx, author, payload)
	if err != nil {
		log.Printf("[GameService] ERROR: game %s finished without score: %v", session.ID, err)
		return err
	}

	session.ScoreID = &score.ID
	metrics.GamesFinished.Inc()
	log.Printf("[GameService] Game %s finished: score=%d correct=%d/%d", session.ID, points, correctCount, answered)

	// Результат уже сохранён, ссылка на него в сессии не обязательна
	if err := s.save(ctx, session); err != nil {
		log.Printf("[GameService] WARNING: score id %d not stored in game %s: %v", score.ID, session.ID, err)
	}
	return nil
}

func (s *GameService) save(ctx context.Context, session *entity.GameSession) error {
	if err := s.cacheRepo.SetJSONKeepTTL(ctx, gameSessionKeyPrefix+session.ID, session); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: game session expired", apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to save game session: %w", err)
	}
	return nil
}

func (s *GameService) load(ctx context.Context, userID uint, gameID string) (*entity.GameSession, error) {
	var session entity.GameSession
	if err := s.cacheRepo.GetJSON(ctx, gameSessionKeyPrefix+gameID, &session); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: game %s", apperrors.ErrNotFound, gameID)
		}
		return nil, fmt.Errorf("failed to load game session: %w", err)
	}
	if session.UserID != userID {
		return nil, fmt.Errorf("%w: game belongs to another user", apperrors.ErrForbidden)
	}
	return &session, nil
}

func (s *GameService) state(ctx context.Context, session *entity.GameSession) (*GameState, error) {
	state := &GameState{Session: session}
	if questionID, ok := session.CurrentQuestionID(); ok {
		question, err := s.questions.GetByID(ctx, questionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load question %d: %w", questionID, err)
		}
		state.Question = question
	}
	return state, nil
}
