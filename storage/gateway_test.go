package storage

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/hnchronicle/hnchronicle/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// createTestDB spins up a migrated in-memory database per test, the way the
// backend tests run against throwaway databases.
func createTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled second connection would see its own empty :memory: database.
	conn, err := db.DB()
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)

	require.NoError(t, DatabaseSetupAndMigration(db))
	return db
}

func storyItem(id int, title string, score int) model.HNItem {
	return model.HNItem{
		Id:          id,
		Type:        model.ItemTypeStory,
		Title:       title,
		Url:         "https://example.com/" + title,
		Score:       score,
		By:          "author",
		Time:        1700000000,
		Descendants: 5,
	}
}

func TestUpsertPost(t *testing.T) {
	db := createTestDB(t)
	gateway := NewGateway(db, GatewayConfig{})

	firstId, err := gateway.UpsertPost(storyItem(42, "first title", 10))
	require.NoError(t, err)
	require.NotZero(t, firstId)

	// Second upsert with the same external id keeps the internal key and
	// reflects the second call's values.
	secondId, err := gateway.UpsertPost(storyItem(42, "second title", 99))
	require.NoError(t, err)
	require.Equal(t, firstId, secondId)

	var count int64
	require.NoError(t, db.Model(&model.HNPost{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	var saved model.HNPost
	require.NoError(t, db.Where("hn_id = ?", 42).First(&saved).Error)
	require.Equal(t, "second title", saved.Title)
	require.Equal(t, 99, saved.Score)
}

func TestUpsertComments(t *testing.T) {
	db := createTestDB(t)
	gateway := NewGateway(db, GatewayConfig{CommentWriteBatchSize: 2})

	t.Run("fails with ErrPostNotFound when the post is absent", func(t *testing.T) {
		err := gateway.UpsertComments([]model.HNItem{{Id: 1, Type: model.ItemTypeComment, Parent: 42}}, 42)
		require.ErrorIs(t, err, ErrPostNotFound)
	})

	t.Run("links comments and nulls the parent of top level ones", func(t *testing.T) {
		postId, err := gateway.UpsertPost(storyItem(42, "story", 10))
		require.NoError(t, err)

		comments := []model.HNItem{
			{Id: 100, Type: model.ItemTypeComment, Parent: 42, By: "alice", Text: "top level", Time: 1700000001},
			{Id: 101, Type: model.ItemTypeComment, Parent: 100, By: "bob", Text: "reply", Time: 1700000002},
			{Id: 102, Type: model.ItemTypeComment, Parent: 42, By: "carol", Text: "another", Time: 1700000003},
		}
		require.NoError(t, gateway.UpsertComments(comments, 42))

		saved, err := gateway.GetPostComments(postId)
		require.NoError(t, err)
		require.Len(t, saved, 3)
		require.Nil(t, saved[0].ParentHnId)
		require.NotNil(t, saved[1].ParentHnId)
		require.Equal(t, 100, *saved[1].ParentHnId)
		require.Nil(t, saved[2].ParentHnId)

		// Re-upserting converges instead of duplicating.
		require.NoError(t, gateway.UpsertComments(comments, 42))
		var count int64
		require.NoError(t, db.Model(&model.HNComment{}).Count(&count).Error)
		require.EqualValues(t, 3, count)
	})
}

func TestUpsertFilteredPost(t *testing.T) {
	db := createTestDB(t)
	gateway := NewGateway(db, GatewayConfig{})

	postA, err := gateway.UpsertPost(storyItem(1, "a", 10))
	require.NoError(t, err)
	postB, err := gateway.UpsertPost(storyItem(2, "b", 20))
	require.NoError(t, err)

	t.Run("same date and rank converges to one row", func(t *testing.T) {
		firstId, err := gateway.UpsertFilteredPost(postA, 1, "2026-08-29")
		require.NoError(t, err)
		secondId, err := gateway.UpsertFilteredPost(postB, 1, "2026-08-29")
		require.NoError(t, err)
		require.Equal(t, firstId, secondId)

		var saved model.FilteredPost
		require.NoError(t, db.Where("filter_date = ? AND rank = ?", "2026-08-29", 1).First(&saved).Error)
		require.Equal(t, postB, saved.HNPostId)

		var count int64
		require.NoError(t, db.Model(&model.FilteredPost{}).Count(&count).Error)
		require.EqualValues(t, 1, count)
	})

	t.Run("same date with two ranks keeps two rows", func(t *testing.T) {
		_, err := gateway.UpsertFilteredPost(postA, 2, "2026-08-29")
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&model.FilteredPost{}).Where("filter_date = ?", "2026-08-29").Count(&count).Error)
		require.EqualValues(t, 2, count)
	})
}

func TestUpsertSummary(t *testing.T) {
	db := createTestDB(t)
	gateway := NewGateway(db, GatewayConfig{})

	postId, err := gateway.UpsertPost(storyItem(1, "a", 10))
	require.NoError(t, err)
	filteredPostId, err := gateway.UpsertFilteredPost(postId, 1, "2026-08-29")
	require.NoError(t, err)

	first, err := gateway.UpsertSummary(filteredPostId, "headline", "body", "phrase", "/placeholder.svg?text=x")
	require.NoError(t, err)

	second, err := gateway.UpsertSummary(filteredPostId, "new headline", "new body", "new phrase", "/placeholder.svg?text=y")
	require.NoError(t, err)
	require.Equal(t, first.Id, second.Id)
	require.Equal(t, "new headline", second.Title)

	var count int64
	require.NoError(t, db.Model(&model.Summary{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestFilteredPostReads(t *testing.T) {
	db := createTestDB(t)
	gateway := NewGateway(db, GatewayConfig{})

	postA, err := gateway.UpsertPost(storyItem(1, "a", 10))
	require.NoError(t, err)
	postB, err := gateway.UpsertPost(storyItem(2, "b", 20))
	require.NoError(t, err)

	fpA2, err := gateway.UpsertFilteredPost(postA, 2, "2026-08-28")
	require.NoError(t, err)
	fpB1, err := gateway.UpsertFilteredPost(postB, 1, "2026-08-28")
	require.NoError(t, err)
	_, err = gateway.UpsertFilteredPost(postA, 1, "2026-08-27")
	require.NoError(t, err)

	_, err = gateway.UpsertSummary(fpB1, "b headline", "b body", "phrase", "/p.svg")
	require.NoError(t, err)
	_, err = gateway.UpsertSummary(fpA2, "a headline", "a body", "phrase", "/p.svg")
	require.NoError(t, err)

	t.Run("latest orders by rank and preloads relations", func(t *testing.T) {
		got, err := gateway.GetLatestFilteredPosts("2026-08-28")
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, 1, got[0].Rank)
		require.Equal(t, "b", got[0].HNPost.Title)
		require.NotNil(t, got[0].Summary)
		require.Equal(t, "b headline", got[0].Summary.Title)
		require.Equal(t, 2, got[1].Rank)
	})

	t.Run("range orders date descending then rank ascending", func(t *testing.T) {
		got, err := gateway.GetFilteredPostsInRange("2026-08-27", "2026-08-28")
		require.NoError(t, err)
		require.Len(t, got, 3)
		require.Equal(t, "2026-08-28", got[0].FilterDate)
		require.Equal(t, 1, got[0].Rank)
		require.Equal(t, 2, got[1].Rank)
		require.Equal(t, "2026-08-27", got[2].FilterDate)
	})

	t.Run("empty range returns nothing", func(t *testing.T) {
		got, err := gateway.GetFilteredPostsInRange("2020-01-01", "2020-01-02")
		require.NoError(t, err)
		require.Empty(t, got)
	})
}
