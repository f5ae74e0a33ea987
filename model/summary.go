package model

import (
	"time"
)

/*

Summary is the generated narrative for one FilteredPost: a headline, 3-4
paragraphs summarizing the discussion, the short phrase used to derive the
illustration, and the resolved image reference.

FilteredPostId is unique: at most one summary per filtered post, refreshed in
place when a run is repeated for the same date.

ImageUrl is a placeholder reference parameterized by the illustration brief,
not a rendered asset.
*/
type Summary struct {
	Id             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	FilteredPostId uint `gorm:"uniqueIndex"`
	Title          string
	Summary        string
	ImagePrompt    string
	ImageUrl       string
}
