package model

import (
	"time"
)

/*

HNComment is the persisted projection of a comment-type HNItem, linked to its
owning HNPost by internal key.

HnId: external Hacker News id, unique, upsert conflict key
HNPostId: internal key of the story the comment belongs to
ParentHnId:
	external id of the parent comment, null when the comment replies directly
	to the post itself. Kept as an external reference because parent comments
	may be pruned (deleted/dead) and therefore absent from the table.
*/
type HNComment struct {
	Id         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	HnId       int  `gorm:"uniqueIndex"`
	HNPostId   uint `gorm:"index"`
	ParentHnId *int
	By         string
	Text       *string
	PostedAt   time.Time
}
