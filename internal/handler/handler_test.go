package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/trivia-backend/internal/domain/entity"
	apperrors "github.com/yourusername/trivia-backend/internal/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestGinContext создает тестовый gin.Context с JSON телом
func newTestGinContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, path, bytes.NewReader(bodyBytes))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

// parseJSONResponse парсит JSON ответ из *httptest.ResponseRecorder
func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}

// ============================================================================
// In-memory репозитории: хендлеры тестируются поверх настоящих сервисов
// ============================================================================

type memUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  []*entity.User
}

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	r.users = append(r.users, user)
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email != nil && *u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memUserRepo) ExistsUsernameFold(ctx context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			u.PasswordHash = &passwordHash
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// memScoreRepo хранит результаты в порядке вставки; выборки отдают новые первыми
type memScoreRepo struct {
	mu     sync.Mutex
	nextID uint
	scores []entity.Score
}

func (r *memScoreRepo) Create(ctx context.Context, score *entity.Score) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	score.ID = r.nextID
	r.scores = append(r.scores, *score)
	return nil
}

func (r *memScoreRepo) newestFirst(match func(s entity.Score) bool, limit int) []entity.Score {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Score{}
	for i := len(r.scores) - 1; i >= 0; i-- {
		if match(r.scores[i]) {
			out = append(out, r.scores[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func (r *memScoreRepo) FindByUser(ctx context.Context, userID uint) ([]entity.Score, error) {
	return r.newestFirst(func(s entity.Score) bool { return s.UserID != nil && *s.UserID == userID }, 0), nil
}

func (r *memScoreRepo) FindByPlayerName(ctx context.Context, playerName string) ([]entity.Score, error) {
	return r.newestFirst(func(s entity.Score) bool { return s.PlayerName != nil && *s.PlayerName == playerName }, 0), nil
}

func (r *memScoreRepo) FindRecent(ctx context.Context, limit int) ([]entity.Score, error) {
	return r.newestFirst(func(entity.Score) bool { return true }, limit), nil
}

func (r *memScoreRepo) FindAll(ctx context.Context) ([]entity.Score, error) {
	return r.newestFirst(func(entity.Score) bool { return true }, 0), nil
}

func (r *memScoreRepo) TopByScore(ctx context.Context, limit int) ([]entity.Score, error) {
	all := r.newestFirst(func(entity.Score) bool { return true }, 0)
	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && all[j].Score > all[j-1].Score; j-- {
			all[j], all[j-1] = all[j-1], all[j]
		}
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *memScoreRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.scores)), nil
}

type fakeTokenIssuer struct{}

func (fakeTokenIssuer) GenerateToken(user *entity.User) (string, error) {
	return "token-for-" + user.Username, nil
}

func strPtr(s string) *string { return &s }

func userNamed(username string) *entity.User {
	return &entity.User{Username: username}
}
