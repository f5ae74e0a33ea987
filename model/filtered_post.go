package model

import (
	"time"
)

/*

FilteredPost records that a story was selected for the front page of a given
run date, and at which rank.

FilterDate: the run date in YYYY-MM-DD, part of the conflict key
Rank: 1-based position within the run date, part of the conflict key

Uniqueness is on (FilterDate, Rank): each rank position of a given day holds
exactly one post. The same post can be selected again on a different date as
a separate row.
*/
type FilteredPost struct {
	Id         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	HNPostId   uint `gorm:"index"`
	HNPost     HNPost
	Rank       int      `gorm:"uniqueIndex:idx_filter_date_rank"`
	FilterDate string   `gorm:"uniqueIndex:idx_filter_date_rank"`
	Summary    *Summary `gorm:"foreignKey:FilteredPostId"`
}
