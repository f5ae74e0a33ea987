package storage

import (
	"time"

	"github.com/hnchronicle/hnchronicle/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultCommentWriteBatchSize = 100

// ErrPostNotFound is returned when a write references a post that has not
// been persisted yet.
var ErrPostNotFound = errors.New("post not found")

// Gateway is the single write/read path into the relational store. All writes
// are upserts keyed on stable identifiers, so re-running a scrape for the
// same day converges instead of duplicating rows.
type Gateway struct {
	db                    *gorm.DB
	commentWriteBatchSize int
}

type GatewayConfig struct {
	// CommentWriteBatchSize bounds rows per insert to keep request payloads
	// small.
	CommentWriteBatchSize int
}

func NewGateway(db *gorm.DB, config GatewayConfig) *Gateway {
	if config.CommentWriteBatchSize <= 0 {
		config.CommentWriteBatchSize = defaultCommentWriteBatchSize
	}
	return &Gateway{db: db, commentWriteBatchSize: config.CommentWriteBatchSize}
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// UpsertPost inserts or refreshes the projection of a story, keyed on its
// external id, and returns the stable internal key.
func (g *Gateway) UpsertPost(item model.HNItem) (uint, error) {
	row := model.HNPost{
		HnId:        item.Id,
		Title:       item.Title,
		Url:         nullableString(item.Url),
		Score:       item.Score,
		By:          item.By,
		PostedAt:    item.PostedAt(),
		Descendants: item.Descendants,
	}
	err := g.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hn_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "url", "score", "by", "posted_at", "descendants", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return 0, errors.Wrapf(err, "fail to upsert post %d", item.Id)
	}

	// Re-read for the internal key: on the conflict-update path the created
	// row's id is not reliably populated across drivers.
	var saved model.HNPost
	if err := g.db.Where("hn_id = ?", item.Id).First(&saved).Error; err != nil {
		return 0, errors.Wrapf(err, "fail to read back post %d", item.Id)
	}
	return saved.Id, nil
}

// UpsertComments writes a story's comments in fixed size batches, resolving
// the owning post's internal key first. A comment whose parent is the post
// itself gets a null parent reference. The first failed batch aborts the
// remaining ones.
func (g *Gateway) UpsertComments(comments []model.HNItem, postHnId int) error {
	if len(comments) == 0 {
		return nil
	}

	var post model.HNPost
	if err := g.db.Where("hn_id = ?", postHnId).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrapf(ErrPostNotFound, "hn id %d", postHnId)
		}
		return errors.Wrapf(err, "fail to resolve post %d", postHnId)
	}

	rows := make([]model.HNComment, 0, len(comments))
	for _, comment := range comments {
		var parentHnId *int
		if comment.Parent != postHnId {
			parent := comment.Parent
			parentHnId = &parent
		}
		rows = append(rows, model.HNComment{
			HnId:       comment.Id,
			HNPostId:   post.Id,
			ParentHnId: parentHnId,
			By:         comment.By,
			Text:       nullableString(comment.Text),
			PostedAt:   comment.PostedAt(),
		})
	}

	err := g.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hn_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"hn_post_id", "parent_hn_id", "by", "text", "posted_at", "updated_at"}),
	}).CreateInBatches(rows, g.commentWriteBatchSize).Error
	if err != nil {
		return errors.Wrapf(err, "fail to upsert comments of post %d", postHnId)
	}
	return nil
}

// UpsertFilteredPost records a ranked selection, keyed on (filter date,
// rank), and returns the stable internal key. Re-ranking a day points the
// rank slot at the new post.
func (g *Gateway) UpsertFilteredPost(postId uint, rank int, filterDate string) (uint, error) {
	row := model.FilteredPost{
		HNPostId:   postId,
		Rank:       rank,
		FilterDate: filterDate,
	}
	err := g.db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "filter_date"}, {Name: "rank"}},
		DoUpdates: clause.AssignmentColumns([]string{"hn_post_id", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return 0, errors.Wrapf(err, "fail to upsert filtered post rank %d on %s", rank, filterDate)
	}

	var saved model.FilteredPost
	if err := g.db.Where("filter_date = ? AND rank = ?", filterDate, rank).First(&saved).Error; err != nil {
		return 0, errors.Wrapf(err, "fail to read back filtered post rank %d on %s", rank, filterDate)
	}
	return saved.Id, nil
}

// UpsertSummary stores the generated narrative for a filtered post, at most
// one per filtered post.
func (g *Gateway) UpsertSummary(filteredPostId uint, title string, summary string, imagePrompt string, imageUrl string) (model.Summary, error) {
	row := model.Summary{
		FilteredPostId: filteredPostId,
		Title:          title,
		Summary:        summary,
		ImagePrompt:    imagePrompt,
		ImageUrl:       imageUrl,
	}
	err := g.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "filtered_post_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "summary", "image_prompt", "image_url", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return model.Summary{}, errors.Wrapf(err, "fail to upsert summary of filtered post %d", filteredPostId)
	}

	var saved model.Summary
	if err := g.db.Where("filtered_post_id = ?", filteredPostId).First(&saved).Error; err != nil {
		return model.Summary{}, errors.Wrapf(err, "fail to read back summary of filtered post %d", filteredPostId)
	}
	return saved, nil
}

// GetLatestFilteredPosts returns the front page of a given date (default:
// today, UTC), posts and summaries preloaded, rank ascending.
func (g *Gateway) GetLatestFilteredPosts(filterDate string) ([]model.FilteredPost, error) {
	if filterDate == "" {
		filterDate = time.Now().UTC().Format("2006-01-02")
	}
	var filteredPosts []model.FilteredPost
	err := g.db.Preload(clause.Associations).
		Where("filter_date = ?", filterDate).
		Order("rank asc").
		Find(&filteredPosts).Error
	if err != nil {
		return nil, errors.Wrapf(err, "fail to read filtered posts of %s", filterDate)
	}
	return filteredPosts, nil
}

// GetFilteredPostsInRange returns all front pages with start <= date <= end,
// newest date first, rank ascending within a date.
func (g *Gateway) GetFilteredPostsInRange(startDate string, endDate string) ([]model.FilteredPost, error) {
	var filteredPosts []model.FilteredPost
	err := g.db.Preload(clause.Associations).
		Where("filter_date >= ? AND filter_date <= ?", startDate, endDate).
		Order("filter_date desc, rank asc").
		Find(&filteredPosts).Error
	if err != nil {
		return nil, errors.Wrapf(err, "fail to read filtered posts between %s and %s", startDate, endDate)
	}
	return filteredPosts, nil
}

// GetPostComments returns every stored comment of a post, oldest first.
func (g *Gateway) GetPostComments(postId uint) ([]model.HNComment, error) {
	var comments []model.HNComment
	err := g.db.Where("hn_post_id = ?", postId).
		Order("posted_at asc").
		Find(&comments).Error
	if err != nil {
		return nil, errors.Wrapf(err, "fail to read comments of post %d", postId)
	}
	return comments, nil
}
