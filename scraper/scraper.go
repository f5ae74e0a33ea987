package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hnchronicle/hnchronicle/app_setting"
	"github.com/hnchronicle/hnchronicle/curator"
	"github.com/hnchronicle/hnchronicle/model"
	Logger "github.com/hnchronicle/hnchronicle/utils/log"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ForumClient is what the pipeline needs from the Hacker News API.
type ForumClient interface {
	FetchTopStories(ctx context.Context, limit int) ([]int, error)
	FetchTopStoriesFromAlgolia(ctx context.Context, limit int) ([]model.HNItem, error)
	FetchItems(ctx context.Context, ids []int) ([]model.HNItem, error)
	FetchAllComments(ctx context.Context, storyId int) ([]model.HNItem, error)
}

// Ranker is the degradable AI surface: ranking, summarization, captioning.
type Ranker interface {
	FilterPosts(ctx context.Context, posts []model.HNItem, limit int) curator.FilterResult
	GenerateSummary(ctx context.Context, post model.HNItem, comments []model.HNItem) curator.SummaryResult
	GenerateImagePrompt(ctx context.Context, headline string) (string, bool)
}

// Illustrator resolves a caption phrase into an image reference.
type Illustrator interface {
	GenerateImageDescription(ctx context.Context, phrase string) (string, bool)
	ResolveImage(description string) string
}

// Store is the persistence surface of one run.
type Store interface {
	UpsertPost(item model.HNItem) (uint, error)
	UpsertComments(comments []model.HNItem, postHnId int) error
	UpsertFilteredPost(postId uint, rank int, filterDate string) (uint, error)
	UpsertSummary(filteredPostId uint, title string, summary string, imagePrompt string, imageUrl string) (model.Summary, error)
}

// RunReport is what a trigger caller gets back from one end-to-end run.
type RunReport struct {
	RunId          string `json:"run_id"`
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	PostsProcessed int    `json:"posts_processed"`
}

// Scraper sequences one end-to-end pipeline run: fetch top stories, persist
// them, rank, then per selected story persist its comments, summary and image
// reference. A run has no resumable state: any fetch or write failure aborts
// it, and a rerun starts over from the top stories list, converging at the
// storage layer through upsert keys. AI failures never abort; they degrade.
type Scraper struct {
	forum       ForumClient
	ranker      Ranker
	illustrator Illustrator
	store       Store
	setting     app_setting.ScraperAppSetting
	now         func() time.Time
}

func NewScraper(forum ForumClient, ranker Ranker, illustrator Illustrator, store Store, setting app_setting.ScraperAppSetting) *Scraper {
	return &Scraper{
		forum:       forum,
		ranker:      ranker,
		illustrator: illustrator,
		store:       store,
		setting:     setting,
		now:         time.Now,
	}
}

// Run executes one pipeline run attributed to today's date and reports the
// outcome. Errors are folded into the report so trigger surfaces only ever
// see a success/failure summary.
func (s *Scraper) Run(ctx context.Context) RunReport {
	runId := uuid.New().String()
	log := Logger.Log.WithField("run_id", runId)

	log.Info("starting scrape run")
	processed, err := s.run(ctx, log)
	if err != nil {
		log.Error("scrape run failed: ", err)
		return RunReport{
			RunId:   runId,
			Success: false,
			Message: fmt.Sprintf("scrape failed: %s", err),
		}
	}

	log.Info("scrape run completed, posts processed: ", processed)
	return RunReport{
		RunId:          runId,
		Success:        true,
		Message:        "scrape completed successfully",
		PostsProcessed: processed,
	}
}

func (s *Scraper) run(ctx context.Context, log *logrus.Entry) (int, error) {
	stories, err := s.fetchTopStories(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "fail to fetch top stories")
	}

	log.Info("persisting raw posts, count: ", len(stories))
	for _, story := range stories {
		if _, err := s.store.UpsertPost(story); err != nil {
			return 0, errors.Wrap(err, "fail to persist raw posts")
		}
	}

	filterResult := s.ranker.FilterPosts(ctx, stories, s.setting.FILTER_LIMIT)
	if filterResult.Degraded {
		log.Warn("ranking degraded to score ordering")
	}

	filterDate := s.now().UTC().Format("2006-01-02")
	for ind, post := range filterResult.Posts {
		rank := ind + 1
		log.Infof("processing post %d/%d: %s", rank, len(filterResult.Posts), post.Title)

		postId, err := s.store.UpsertPost(post)
		if err != nil {
			return 0, errors.Wrapf(err, "fail to persist post %d", post.Id)
		}
		filteredPostId, err := s.store.UpsertFilteredPost(postId, rank, filterDate)
		if err != nil {
			return 0, errors.Wrapf(err, "fail to persist rank %d", rank)
		}

		comments, err := s.forum.FetchAllComments(ctx, post.Id)
		if err != nil {
			return 0, errors.Wrapf(err, "fail to fetch comments of post %d", post.Id)
		}
		if err := s.store.UpsertComments(comments, post.Id); err != nil {
			return 0, errors.Wrapf(err, "fail to persist comments of post %d", post.Id)
		}

		summary := s.ranker.GenerateSummary(ctx, post, comments)
		if summary.Degraded {
			log.Warn("summary degraded for post ", post.Id)
		}
		phrase, degraded := s.ranker.GenerateImagePrompt(ctx, summary.Headline)
		if degraded {
			log.Warn("image phrase degraded for post ", post.Id)
		}
		description, degraded := s.illustrator.GenerateImageDescription(ctx, phrase)
		if degraded {
			log.Warn("illustration brief degraded for post ", post.Id)
		}
		imageUrl := s.illustrator.ResolveImage(description)

		if _, err := s.store.UpsertSummary(filteredPostId, summary.Headline, summary.Body, phrase, imageUrl); err != nil {
			return 0, errors.Wrapf(err, "fail to persist summary of post %d", post.Id)
		}
	}

	return len(filterResult.Posts), nil
}

// fetchTopStories pulls the run's working set from the configured source. The
// firebase list endpoint only yields ids, so items are fan-out fetched
// afterwards; the algolia source already carries full story metadata.
func (s *Scraper) fetchTopStories(ctx context.Context) ([]model.HNItem, error) {
	if s.setting.TOP_STORY_SOURCE == "algolia" {
		return s.forum.FetchTopStoriesFromAlgolia(ctx, s.setting.TOP_STORY_LIMIT)
	}
	ids, err := s.forum.FetchTopStories(ctx, s.setting.TOP_STORY_LIMIT)
	if err != nil {
		return nil, err
	}
	return s.forum.FetchItems(ctx, ids)
}
