package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/bggcollect/internal/db"
	"github.com/vytor/bggcollect/internal/testutil"
)

type CacheSuite struct {
	suite.Suite
	db    *db.DB
	cache *Cache
	now   time.Time
}

func (s *CacheSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.now = time.Date(2020, 2, 1, 10, 0, 0, 0, time.UTC)
	s.cache = New(s.db.DB, time.Hour)
	s.cache.now = func() time.Time { return s.now }
}

func (s *CacheSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *CacheSuite) TestMiss() {
	_, ok, err := s.cache.Get(context.Background(), "https://example.test/collection?username=nobody")
	s.Require().NoError(err)
	s.Assert().False(ok)
}

func (s *CacheSuite) TestSetThenGet() {
	ctx := context.Background()
	key := "https://example.test/collection?username=fagentu007"

	s.Require().NoError(s.cache.Set(ctx, key, "<items/>"))

	body, ok, err := s.cache.Get(ctx, key)
	s.Require().NoError(err)
	s.Assert().True(ok)
	s.Assert().Equal("<items/>", body)
}

func (s *CacheSuite) TestSetOverwrites() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, "k", "old"))
	s.now = s.now.Add(30 * time.Minute)
	s.Require().NoError(s.cache.Set(ctx, "k", "new"))

	body, ok, err := s.cache.Get(ctx, "k")
	s.Require().NoError(err)
	s.Assert().True(ok)
	s.Assert().Equal("new", body)
}

func (s *CacheSuite) TestExpiredIsMiss() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, "k", "v"))

	s.now = s.now.Add(time.Hour)
	_, ok, err := s.cache.Get(ctx, "k")
	s.Require().NoError(err)
	s.Assert().False(ok)
}

func (s *CacheSuite) TestPurge() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, "old", "v"))
	s.now = s.now.Add(45 * time.Minute)
	s.Require().NoError(s.cache.Set(ctx, "fresh", "v"))
	s.now = s.now.Add(30 * time.Minute)

	n, err := s.cache.Purge(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(int64(1), n)

	var count int
	s.Require().NoError(s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM http_cache`).Scan(&count))
	s.Assert().Equal(1, count)
}

func (s *CacheSuite) TestNoTTLKeepsEntries() {
	ctx := context.Background()
	c := New(s.db.DB, 0)
	c.now = func() time.Time { return s.now }
	s.Require().NoError(c.Set(ctx, "k", "v"))

	s.now = s.now.Add(10 * 365 * 24 * time.Hour)
	_, ok, err := c.Get(ctx, "k")
	s.Require().NoError(err)
	s.Assert().True(ok)

	n, err := c.Purge(ctx)
	s.Require().NoError(err)
	s.Assert().Zero(n)
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheSuite))
}
