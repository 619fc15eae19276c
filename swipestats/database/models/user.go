package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User owns profiles. Migrated users are synthetic and only exist to satisfy
// the profiles.user_id foreign key.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        string    `bun:"id,pk,type:text"`
	Synthetic bool      `bun:"synthetic,notnull,default:true"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
