package curator

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/hnchronicle/hnchronicle/model"
	Logger "github.com/hnchronicle/hnchronicle/utils/log"
)

const (
	defaultMaxPromptComments = 50

	// fallbackSummaryNotice is persisted verbatim when summarization degrades.
	fallbackSummaryNotice = "Unable to generate summary. Please check the original discussion."
	// fallbackImagePhrase is the caption of last resort.
	fallbackImagePhrase = "tech discussion visualization"
)

var headlineRe = regexp.MustCompile(`(?m)^HEADLINE:[ \t]*(.*)[ \t]*$`)

// FilterResult is the outcome of a ranking call. Degraded is set when the
// model call or its parse failed and the score heuristic produced the
// selection instead. The run proceeds either way.
type FilterResult struct {
	Posts    []model.HNItem
	Degraded bool
}

// SummaryResult is the outcome of one summarization call. Degraded summaries
// carry the default headline and a fixed notice body.
type SummaryResult struct {
	Headline string
	Body     string
	Degraded bool
}

// postDigest is the compact projection of a post sent to the ranking prompt.
type postDigest struct {
	Id          int    `json:"id"`
	Title       string `json:"title"`
	Url         string `json:"url,omitempty"`
	Score       int    `json:"score"`
	By          string `json:"by"`
	Descendants int    `json:"descendants"`
}

// Curator ranks and summarizes posts through a text completion model,
// degrading to deterministic fallbacks whenever the model misbehaves. None of
// its methods ever fail a run.
type Curator struct {
	completer         TextCompleter
	maxPromptComments int
}

type CuratorConfig struct {
	Completer TextCompleter
	// MaxPromptComments bounds how many comments the summary prompt includes.
	MaxPromptComments int
}

func NewCurator(config CuratorConfig) *Curator {
	if config.MaxPromptComments <= 0 {
		config.MaxPromptComments = defaultMaxPromptComments
	}
	return &Curator{
		completer:         config.Completer,
		maxPromptComments: config.MaxPromptComments,
	}
}

// FilterPosts asks the model to select and order the limit most interesting
// posts. Ids the model invents are dropped. On any call or parse failure the
// selection degrades to the top limit posts by descending score, stable on
// ties, without retrying the model.
func (c *Curator) FilterPosts(ctx context.Context, posts []model.HNItem, limit int) FilterResult {
	digests := make([]postDigest, 0, len(posts))
	for _, post := range posts {
		digests = append(digests, postDigest{
			Id:          post.Id,
			Title:       post.Title,
			Url:         post.Url,
			Score:       post.Score,
			By:          post.By,
			Descendants: post.Descendants,
		})
	}
	digestsJSON, err := json.MarshalIndent(digests, "", "  ")
	if err != nil {
		Logger.Log.Error("fail to marshal post digests: ", err)
		return FilterResult{Posts: fallbackByScore(posts, limit), Degraded: true}
	}

	text, err := c.completer.Complete(ctx, buildFilterPrompt(string(digestsJSON), limit))
	if err != nil {
		Logger.Log.Error("ranking call failed, falling back to score ordering: ", err)
		return FilterResult{Posts: fallbackByScore(posts, limit), Degraded: true}
	}

	selected, err := mapRankedIds(text, posts)
	if err != nil {
		Logger.Log.Error("ranking response unusable, falling back to score ordering: ", err)
		return FilterResult{Posts: fallbackByScore(posts, limit), Degraded: true}
	}
	return FilterResult{Posts: selected}
}

// mapRankedIds parses the model's id array and maps it back onto the original
// posts. Unresolvable ids are dropped since they are model-generated free
// text and may be hallucinated.
func mapRankedIds(text string, posts []model.HNItem) ([]model.HNItem, error) {
	var ids []int
	cleaned := cleanJSONResponse(text)
	if err := json.Unmarshal([]byte(cleaned), &ids); err != nil {
		return nil, &ModelResponseError{Raw: text, Err: err}
	}

	idToPost := make(map[int]model.HNItem, len(posts))
	for _, post := range posts {
		idToPost[post.Id] = post
	}

	selected := []model.HNItem{}
	for _, id := range ids {
		if post, ok := idToPost[id]; ok {
			selected = append(selected, post)
		}
	}
	return selected, nil
}

// fallbackByScore is the deterministic ranking used when the model cannot be
// trusted: descending score, ties keep the original order.
func fallbackByScore(posts []model.HNItem, limit int) []model.HNItem {
	sorted := append([]model.HNItem{}, posts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// GenerateSummary asks the model for a HEADLINE-prefixed narrative summary of
// the discussion. It never fails: a missing headline synthesizes one from the
// post title, and a failed call degrades to the fixed notice body.
func (c *Curator) GenerateSummary(ctx context.Context, post model.HNItem, comments []model.HNItem) SummaryResult {
	defaultHeadline := fmt.Sprintf("Discussion: %s", post.Title)

	lines := []string{}
	for ind, comment := range comments {
		if ind >= c.maxPromptComments {
			break
		}
		lines = append(lines, fmt.Sprintf("%s: %s", comment.By, comment.Text))
	}

	text, err := c.completer.Complete(ctx, buildSummaryPrompt(post.Title, post.Url, post.By, joinCommentLines(lines)))
	if err != nil {
		Logger.Log.Error("summary call failed, using fallback notice: ", err)
		return SummaryResult{Headline: defaultHeadline, Body: fallbackSummaryNotice, Degraded: true}
	}

	headline := defaultHeadline
	if m := headlineRe.FindStringSubmatch(text); m != nil {
		if trimmed := strings.TrimSpace(m[1]); trimmed != "" {
			headline = trimmed
		}
	}
	body := strings.TrimSpace(headlineRe.ReplaceAllString(text, ""))
	return SummaryResult{Headline: headline, Body: body}
}

// GenerateImagePrompt asks the model for a 3-6 word visually descriptive
// phrase for the headline, falling back to a fixed phrase on failure.
func (c *Curator) GenerateImagePrompt(ctx context.Context, headline string) (string, bool) {
	text, err := c.completer.Complete(ctx, buildImagePrompt(headline))
	if err != nil {
		Logger.Log.Error("image phrase call failed, using fallback phrase: ", err)
		return fallbackImagePhrase, true
	}
	phrase := strings.TrimSpace(text)
	if phrase == "" {
		return fallbackImagePhrase, true
	}
	return phrase, false
}
