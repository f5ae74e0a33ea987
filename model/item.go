package model

import "time"

// Item kinds returned by the Hacker News API.
const (
	ItemTypeStory   = "story"
	ItemTypeComment = "comment"
	ItemTypeJob     = "job"
	ItemTypePoll    = "poll"
	ItemTypePollOpt = "pollopt"
)

/*

HNItem is one item fetched from the Hacker News API, either a story, a
comment, a job post or a poll. It is the in-memory working type of a single
scrape run and is never stored directly, only projected into HNPost /
HNComment.

Field names and json tags follow the upstream API:
https://github.com/HackerNews/API

Kids holds the ids of the item's direct children in ranked display order.
Deleted and Dead mark items that were removed or killed upstream; such items
carry no useful payload and their subtrees are not worth traversing.
*/
type HNItem struct {
	Id          int    `json:"id"`
	Deleted     bool   `json:"deleted,omitempty"`
	Type        string `json:"type"`
	By          string `json:"by"`
	Time        int64  `json:"time"`
	Text        string `json:"text,omitempty"`
	Dead        bool   `json:"dead,omitempty"`
	Parent      int    `json:"parent,omitempty"`
	Kids        []int  `json:"kids,omitempty"`
	Url         string `json:"url,omitempty"`
	Score       int    `json:"score,omitempty"`
	Title       string `json:"title,omitempty"`
	Descendants int    `json:"descendants,omitempty"`
}

// PostedAt converts the item's unix timestamp to time.Time.
func (i HNItem) PostedAt() time.Time {
	return time.Unix(i.Time, 0).UTC()
}
