package model

import (
	"time"
)

/*

HNPost is the persisted projection of a story-type HNItem.

Id: primary key, the stable internal key other tables reference
CreatedAt/UpdatedAt: bookkeeping timestamps maintained by gorm

HnId: the external Hacker News id, unique, upsert conflict key
Title: story title in plain text
Url: story link, null for text-only posts (Ask HN etc.)
Score: points at fetch time
By: submitter's username
PostedAt: submission time reported by the API
Descendants: total comment count at fetch time

Repeated scrape runs upsert on HnId, so a story refreshed on a later run keeps
its internal key and only its mutable fields (score, descendants) move.
*/
type HNPost struct {
	Id          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	HnId        int `gorm:"uniqueIndex"`
	Title       string
	Url         *string
	Score       int
	By          string
	PostedAt    time.Time
	Descendants int
}
