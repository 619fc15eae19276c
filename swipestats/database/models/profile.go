package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Gender string

const (
	GenderMale    Gender = "MALE"
	GenderFemale  Gender = "FEMALE"
	GenderOther   Gender = "OTHER"
	GenderUnknown Gender = "UNKNOWN"
)

// Profile is one dating-app account snapshot.
type Profile struct {
	bun.BaseModel `bun:"table:profiles,alias:p"`

	ID     string `bun:"id,pk,type:text"`
	UserID string `bun:"user_id,notnull,type:text"`

	Gender         Gender   `bun:"gender,notnull,type:text"`
	GenderFilter   Gender   `bun:"gender_filter,notnull,type:text"`
	InterestedIn   Gender   `bun:"interested_in,notnull,type:text"`
	AgeAtUpload    *int     `bun:"age_at_upload"`
	AgeAtLastUsage *int     `bun:"age_at_last_usage"`
	AgeFilterMin   *int     `bun:"age_filter_min"`
	AgeFilterMax   *int     `bun:"age_filter_max"`
	City           *string  `bun:"city,type:text"`
	Region         *string  `bun:"region,type:text"`
	Country        *string  `bun:"country,type:text"`
	Bio            *string  `bun:"bio,type:text"`
	Interests      []string `bun:"interests,type:jsonb"`

	BirthDate           time.Time `bun:"birth_date,notnull"`
	CreateDate          time.Time `bun:"create_date,notnull"`
	FirstDayOnApp       time.Time `bun:"first_day_on_app,notnull"`
	LastDayOnApp        time.Time `bun:"last_day_on_app,notnull"`
	DaysInProfilePeriod int       `bun:"days_in_profile_period,notnull,default:0"`

	Computed        bool      `bun:"computed,notnull,default:false"`
	LegacyCreatedAt time.Time `bun:"legacy_created_at,notnull"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt       time.Time `bun:"updated_at,notnull"`

	// Relations
	User *User        `bun:"rel:belongs-to,join:user_id=id"`
	Meta *ProfileMeta `bun:"rel:has-one,join:id=profile_id"`
}

type Job struct {
	bun.BaseModel `bun:"table:jobs,alias:j"`

	ID               string  `bun:"id,pk,type:text"`
	ProfileID        string  `bun:"profile_id,notnull,type:text"`
	Title            *string `bun:"title,type:text"`
	TitleDisplayed   bool    `bun:"title_displayed,notnull,default:false"`
	Company          *string `bun:"company,type:text"`
	CompanyDisplayed bool    `bun:"company_displayed,notnull,default:false"`
}

type SchoolType string

const (
	SchoolTypeHighSchool SchoolType = "HIGH_SCHOOL"
	SchoolTypeUniversity SchoolType = "UNIVERSITY"
	SchoolTypeUnknown    SchoolType = "UNKNOWN"
)

type School struct {
	bun.BaseModel `bun:"table:schools,alias:s"`

	ID        string     `bun:"id,pk,type:text"`
	ProfileID string     `bun:"profile_id,notnull,type:text"`
	Name      string     `bun:"name,notnull,type:text"`
	Displayed bool       `bun:"displayed,notnull,default:false"`
	Type      SchoolType `bun:"type,notnull,type:text"`
}

type MediaType string

const (
	MediaTypePhoto MediaType = "PHOTO"
	MediaTypeVideo MediaType = "VIDEO"
)

type Media struct {
	bun.BaseModel `bun:"table:media,alias:md"`

	ID              string    `bun:"id,pk,type:text"`
	ProfileID       string    `bun:"profile_id,notnull,type:text"`
	Type            MediaType `bun:"type,notnull,type:text"`
	URL             string    `bun:"url,notnull,type:text"`
	Prompt          *string   `bun:"prompt,type:text"`
	FromSocialMedia bool      `bun:"from_social_media,notnull,default:false"`
}
