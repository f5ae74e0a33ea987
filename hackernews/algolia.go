package hackernews

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hnchronicle/hnchronicle/model"
)

// AlgoliaHit is one front page entry from the Algolia search API, which
// exposes more metadata per entry than the official list endpoint.
type AlgoliaHit struct {
	ObjectID    string `json:"objectID"`
	Title       string `json:"title"`
	Url         string `json:"url"`
	Author      string `json:"author"`
	Points      int    `json:"points"`
	NumComments int    `json:"num_comments"`
	CreatedAtI  int64  `json:"created_at_i"`
}

type algoliaSearchResponse struct {
	Hits []AlgoliaHit `json:"hits"`
}

// FetchTopStoriesFromAlgolia is the alternate top stories source. It returns
// front page stories as HNItems directly, already carrying title and score,
// so callers skip the per-id item fetches. Hits whose id does not parse are
// dropped.
func (c *Client) FetchTopStoriesFromAlgolia(ctx context.Context, limit int) ([]model.HNItem, error) {
	var parsed algoliaSearchResponse
	url := fmt.Sprintf("%s/search?tags=front_page&hitsPerPage=%d", c.algoliaBaseURL, limit)
	if err := c.getJSON(ctx, url, &parsed); err != nil {
		return nil, err
	}

	items := []model.HNItem{}
	for _, hit := range parsed.Hits {
		id, err := strconv.Atoi(hit.ObjectID)
		if err != nil {
			continue
		}
		items = append(items, model.HNItem{
			Id:          id,
			Type:        model.ItemTypeStory,
			By:          hit.Author,
			Time:        hit.CreatedAtI,
			Url:         hit.Url,
			Score:       hit.Points,
			Title:       hit.Title,
			Descendants: hit.NumComments,
		})
	}
	return items, nil
}
