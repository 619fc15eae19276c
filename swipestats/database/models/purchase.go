package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Purchase is a legacy paid-user record. Legacy rows only carry the two fields
// the profile id is derived from, so ProfileID is resolved at copy time.
type Purchase struct {
	bun.BaseModel `bun:"table:purchases,alias:pu"`

	ID          string    `bun:"id,pk,type:text"`
	ProfileID   string    `bun:"profile_id,notnull,type:text"`
	Product     string    `bun:"product,notnull,type:text"`
	AmountCents int64     `bun:"amount_cents,notnull,default:0"`
	Currency    string    `bun:"currency,notnull,type:text,default:'USD'"`
	PurchasedAt time.Time `bun:"purchased_at,notnull"`
}
