package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/hnchronicle/hnchronicle/model"
	"github.com/pkg/errors"
)

const (
	DefaultBaseURL        = "https://hacker-news.firebaseio.com/v0"
	DefaultAlgoliaBaseURL = "https://hn.algolia.com/api/v1"

	defaultCommentBatchSize = 10
	defaultTimeoutSecond    = 30
)

// HttpClient is the minimal surface the client needs from a http client,
// kept as an interface so tests can substitute a fake transport.
type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig carries everything the client would otherwise read from the
// ambient environment, so callers can point it at a fake server.
type ClientConfig struct {
	// BaseURL is the Firebase-backed official API root.
	BaseURL string
	// AlgoliaBaseURL is the search API root used as an alternate top stories
	// source.
	AlgoliaBaseURL string
	// CommentBatchSize bounds the number of comment fetches in flight while
	// walking a story's tree.
	CommentBatchSize int
	// TimeoutSecond applies per request.
	TimeoutSecond int
	// HttpClient overrides the underlying transport when non-nil.
	HttpClient HttpClient
}

// Client reads stories and comment trees from the Hacker News API. All reads
// are side effect free against upstream; any non-success response surfaces as
// a *NetworkError.
type Client struct {
	baseURL          string
	algoliaBaseURL   string
	commentBatchSize int
	httpClient       HttpClient
}

func NewClient(config ClientConfig) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.AlgoliaBaseURL == "" {
		config.AlgoliaBaseURL = DefaultAlgoliaBaseURL
	}
	if config.CommentBatchSize <= 0 {
		config.CommentBatchSize = defaultCommentBatchSize
	}
	if config.TimeoutSecond <= 0 {
		config.TimeoutSecond = defaultTimeoutSecond
	}
	if config.HttpClient == nil {
		config.HttpClient = &http.Client{Timeout: time.Duration(config.TimeoutSecond) * time.Second}
	}
	return &Client{
		baseURL:          config.BaseURL,
		algoliaBaseURL:   config.AlgoliaBaseURL,
		commentBatchSize: config.CommentBatchSize,
		httpClient:       config.HttpClient,
	}
}

// getJSON performs one GET and decodes the response body into out.
func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "fail to build request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &NetworkError{URL: url, StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "fail to decode response from %s", url)
	}
	return nil
}

// FetchItem fetches a single item by id.
func (c *Client) FetchItem(ctx context.Context, id int) (model.HNItem, error) {
	var item model.HNItem
	url := fmt.Sprintf("%s/item/%d.json", c.baseURL, id)
	if err := c.getJSON(ctx, url, &item); err != nil {
		return model.HNItem{}, err
	}
	return item, nil
}

// FetchTopStories returns the first limit ids of the remote top stories list,
// preserving the ordering the API provides.
func (c *Client) FetchTopStories(ctx context.Context, limit int) ([]int, error) {
	var ids []int
	url := fmt.Sprintf("%s/topstories.json", c.baseURL)
	if err := c.getJSON(ctx, url, &ids); err != nil {
		return nil, err
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// FetchItems fetches all given ids concurrently. The result order matches the
// input order. Any single failed fetch fails the whole batch.
func (c *Client) FetchItems(ctx context.Context, ids []int) ([]model.HNItem, error) {
	items := make([]model.HNItem, len(ids))
	errCh := make(chan error, len(ids))
	var wg sync.WaitGroup
	for ind := range ids {
		wg.Add(1)
		go func(ind int) {
			defer wg.Done()
			item, err := c.FetchItem(ctx, ids[ind])
			if err != nil {
				errCh <- err
				return
			}
			items[ind] = item
		}(ind)
	}

	// wait for all goroutines to finish
	wg.Wait()
	close(errCh)
	if err, ok := <-errCh; ok {
		return nil, err
	}
	return items, nil
}

// FetchAllComments walks a story's comment tree breadth first, starting from
// the story's direct children, fetching at most commentBatchSize items in
// flight. Deleted and dead comments are pruned: they are excluded from the
// result and their children are never enqueued.
func (c *Client) FetchAllComments(ctx context.Context, storyId int) ([]model.HNItem, error) {
	story, err := c.FetchItem(ctx, storyId)
	if err != nil {
		return nil, err
	}
	if len(story.Kids) == 0 {
		return []model.HNItem{}, nil
	}

	comments := []model.HNItem{}
	queue := append([]int{}, story.Kids...)

	for len(queue) > 0 {
		batchSize := c.commentBatchSize
		if batchSize > len(queue) {
			batchSize = len(queue)
		}
		batch := queue[:batchSize]
		queue = queue[batchSize:]

		batchComments, err := c.FetchItems(ctx, batch)
		if err != nil {
			return nil, err
		}

		for _, comment := range batchComments {
			if comment.Deleted || comment.Dead {
				continue
			}
			comments = append(comments, comment)
			queue = append(queue, comment.Kids...)
		}
	}

	return comments, nil
}
