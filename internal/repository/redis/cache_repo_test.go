package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/suite"

	apperrors "github.com/yourusername/trivia-backend/internal/pkg/errors"
)

type cachedItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type CacheRepoSuite struct {
	suite.Suite
	mini *miniredis.Miniredis
	repo *CacheRepo
	ctx  context.Context
}

func TestCacheRepoSuite(t *testing.T) {
	suite.Run(t, new(CacheRepoSuite))
}

func (s *CacheRepoSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})

	repo, err := NewCacheRepo(client)
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *CacheRepoSuite) TearDownTest() {
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *CacheRepoSuite) TestNewCacheRepo_NilClient() {
	_, err := NewCacheRepo(nil)
	s.Error(err)
}

func (s *CacheRepoSuite) TestSetAndGetJSON() {
	err := s.repo.SetJSON(s.ctx, "item:1", cachedItem{Name: "a", Count: 2}, time.Minute)
	s.Require().NoError(err)

	var got cachedItem
	s.Require().NoError(s.repo.GetJSON(s.ctx, "item:1", &got))
	s.Equal("a", got.Name)
	s.Equal(2, got.Count)
}

func (s *CacheRepoSuite) TestGetJSON_MissingKey() {
	var got cachedItem
	err := s.repo.GetJSON(s.ctx, "missing", &got)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *CacheRepoSuite) TestSetJSON_Expires() {
	s.Require().NoError(s.repo.SetJSON(s.ctx, "item:ttl", cachedItem{Name: "x"}, time.Minute))

	s.mini.FastForward(2 * time.Minute)

	var got cachedItem
	s.ErrorIs(s.repo.GetJSON(s.ctx, "item:ttl", &got), apperrors.ErrNotFound)
}

func (s *CacheRepoSuite) TestSetJSONKeepTTL_PreservesTTL() {
	s.Require().NoError(s.repo.SetJSON(s.ctx, "item:keep", cachedItem{Count: 1}, time.Hour))
	s.mini.FastForward(30 * time.Minute)

	s.Require().NoError(s.repo.SetJSONKeepTTL(s.ctx, "item:keep", cachedItem{Count: 2}))

	ttl := s.mini.TTL("item:keep")
	s.True(ttl > 0 && ttl <= 30*time.Minute, "TTL не должен сбрасываться при обновлении, получили %s", ttl)

	var got cachedItem
	s.Require().NoError(s.repo.GetJSON(s.ctx, "item:keep", &got))
	s.Equal(2, got.Count)
}

func (s *CacheRepoSuite) TestSetJSONKeepTTL_MissingKey() {
	err := s.repo.SetJSONKeepTTL(s.ctx, "item:gone", cachedItem{Count: 1})
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.False(s.mini.Exists("item:gone"), "Истёкший ключ не должен воскресать")
}

func (s *CacheRepoSuite) TestDelete() {
	s.Require().NoError(s.repo.SetJSON(s.ctx, "item:del", cachedItem{}, time.Minute))
	s.Require().NoError(s.repo.Delete(s.ctx, "item:del"))
	s.False(s.mini.Exists("item:del"))
}

func (s *CacheRepoSuite) TestSetNX() {
	ok, err := s.repo.SetNX(s.ctx, "lock:1", "1", time.Minute)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.repo.SetNX(s.ctx, "lock:1", "1", time.Minute)
	s.Require().NoError(err)
	s.False(ok, "Повторная установка существующего ключа должна вернуть false")
}
