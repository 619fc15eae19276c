package migration

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/swipestats/migrator/swipestats/database/models"
	"github.com/swipestats/migrator/swipestats/legacy"
	"github.com/swipestats/migrator/swipestats/services"
)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2022, 3, 14, 9, 26, 53, 0, time.UTC)
	tests := []struct {
		name    string
		in      legacy.Timestamp
		want    time.Time
		wantOK  bool
		wantErr bool
	}{
		{"native", legacy.At(want.In(time.FixedZone("CET", 3600))), want, true, false},
		{"rfc3339", legacy.Text("2022-03-14T10:26:53+01:00"), want, true, false},
		{"date time", legacy.Text("2022-03-14 09:26:53"), want, true, false},
		{"iso without zone", legacy.Text("2022-03-14T09:26:53"), want, true, false},
		{"date only", legacy.Text(" 2022-03-14 "), time.Date(2022, 3, 14, 0, 0, 0, 0, time.UTC), true, false},
		{"absent", legacy.Timestamp{}, time.Time{}, false, false},
		{"garbage", legacy.Text("14/03/2022"), time.Time{}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := parseTimestamp(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errUnparseable) {
				t.Errorf("error = %v, want errUnparseable", err)
			}
			if ok != tt.wantOK || !got.Equal(tt.want) {
				t.Errorf("parseTimestamp() = %v, %v, want %v, %v", got, ok, tt.want, tt.wantOK)
			}
			if ok && got.Location() != time.UTC {
				t.Errorf("location = %v, want UTC", got.Location())
			}
		})
	}
}

func TestNormalizeGender(t *testing.T) {
	tests := []struct {
		in   *string
		want models.Gender
	}{
		{strp("M"), models.GenderMale},
		{strp("male"), models.GenderMale},
		{strp("Man"), models.GenderMale},
		{strp("f"), models.GenderFemale},
		{strp(" Woman "), models.GenderFemale},
		{strp("everyone"), models.GenderOther},
		{strp(""), models.GenderUnknown},
		{nil, models.GenderUnknown},
	}
	for _, tt := range tests {
		if got := normalizeGender(tt.in); got != tt.want {
			t.Errorf("normalizeGender(%v) = %s, want %s", deref(tt.in), got, tt.want)
		}
	}
}

func TestConvertProfile(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p := legacy.Profile{
		TinderID:      "abc",
		CreateDate:    legacy.Text("2021-06-01"),
		BirthDate:     legacy.Text("1990-01-01"),
		FirstDayOnApp: legacy.At(time.Date(2021, 6, 1, 18, 0, 0, 0, time.UTC)),
		LastDayOnApp:  legacy.Text("2021-06-10T08:00:00Z"),
		Gender:        strp("F"),
		InterestedIn:  strp("M"),
		City:          legacy.RawDocument(`{"name":" Oslo ","region":"Oslo"}`),
		Interests:     legacy.RawDocument(`["Hiking",{"name":"Coffee"}," "]`),
		Country:       strp(" NO "),
	}

	got, err := convertProfile(p, now)
	if err != nil {
		t.Fatalf("convertProfile() error = %v", err)
	}
	if got.DaysInProfilePeriod != 10 {
		t.Errorf("days in profile period = %d, want 10", got.DaysInProfilePeriod)
	}
	if got.Gender != models.GenderFemale || got.InterestedIn != models.GenderMale || got.GenderFilter != models.GenderUnknown {
		t.Errorf("genders = %s/%s/%s", got.Gender, got.InterestedIn, got.GenderFilter)
	}
	if deref(got.City) != "Oslo" || deref(got.Region) != "Oslo" || deref(got.Country) != "NO" {
		t.Errorf("place = %v/%v/%v", deref(got.City), deref(got.Region), deref(got.Country))
	}
	if !reflect.DeepEqual(got.Interests, []string{"Hiking", "Coffee"}) {
		t.Errorf("interests = %v", got.Interests)
	}
	if got.UserID != ownerID("abc", nil) || got.UserID == "" {
		t.Errorf("user id = %q, want synthetic owner", got.UserID)
	}
	if got.Computed {
		t.Errorf("new profile must not be computed")
	}

	p.BirthDate = legacy.Timestamp{}
	_, err = convertProfile(p, now)
	var te *TransformError
	if !errors.As(err, &te) || te.Field != "birthDate" || !errors.Is(err, errMissing) {
		t.Errorf("missing birth date error = %v", err)
	}
}

func TestOwnerID(t *testing.T) {
	if got := ownerID("p1", strp(" user-1 ")); got != "user-1" {
		t.Errorf("ownerID with user = %q", got)
	}
	a, b := ownerID("p1", nil), ownerID("p1", strp(""))
	if a != b {
		t.Errorf("synthetic owner not stable: %q vs %q", a, b)
	}
	if a == ownerID("p2", nil) {
		t.Errorf("synthetic owners collide")
	}
}

func TestConvertUsageDay(t *testing.T) {
	day := legacy.Text("2022-02-03T15:04:05Z")
	tests := []struct {
		name       string
		in         legacy.UsageDay
		wantActive bool
		wantErr    bool
	}{
		{"opened", legacy.UsageDay{ProfileID: "p", DateStamp: day, AppOpens: 2}, true, false},
		{"not opened", legacy.UsageDay{ProfileID: "p", DateStamp: day, SwipeLikes: 4}, false, false},
		{"placeholder", legacy.UsageDay{ProfileID: "p", DateStamp: day, AppOpens: 9, DateIsMissingFromOriginalData: true}, false, false},
		{"negative", legacy.UsageDay{ProfileID: "p", DateStamp: day, SwipePasses: -1}, false, true},
		{"no date", legacy.UsageDay{ProfileID: "p"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convertUsageDay(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var te *TransformError
				if !errors.As(err, &te) || te.Entity != EntityUsageDays {
					t.Errorf("error = %v, want TransformError for usage_days", err)
				}
				return
			}
			if got.Active != tt.wantActive {
				t.Errorf("Active = %v, want %v", got.Active, tt.wantActive)
			}
			if got.ID != "p:2022-02-03" {
				t.Errorf("ID = %q, want p:2022-02-03", got.ID)
			}
			if !got.DateStamp.Equal(time.Date(2022, 2, 3, 0, 0, 0, 0, time.UTC)) {
				t.Errorf("DateStamp = %v, want truncated day", got.DateStamp)
			}
			if got.MissingFromOriginalData != tt.in.DateIsMissingFromOriginalData {
				t.Errorf("missing flag not carried over")
			}
		})
	}
}

func TestConvertMatch(t *testing.T) {
	tests := []struct {
		name        string
		in          legacy.Match
		wantGhosted bool
		wantErr     bool
	}{
		{"ghosted", legacy.Match{ID: "m1", ProfileID: strp("p"), TotalMessages: intp(0)}, true, false},
		{"null count", legacy.Match{ID: "m2", ProfileID: strp("p")}, true, false},
		{"talked", legacy.Match{ID: "m3", ProfileID: strp("p"), TotalMessages: intp(4), MatchedAt: legacy.Text("2022-01-01")}, false, false},
		{"negative", legacy.Match{ID: "m4", ProfileID: strp("p"), TotalMessages: intp(-2)}, false, true},
		{"bad date", legacy.Match{ID: "m5", ProfileID: strp("p"), LikedAt: legacy.Text("yesterday")}, false, true},
		{"no profile", legacy.Match{ID: "m6"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convertMatch(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got.Ghosted != tt.wantGhosted {
				t.Errorf("Ghosted = %v, want %v", got.Ghosted, tt.wantGhosted)
			}
			if got.Ghosted != (got.TotalMessageCount == 0) {
				t.Errorf("Ghosted %v disagrees with count %d", got.Ghosted, got.TotalMessageCount)
			}
		})
	}
}

func TestConvertMessage(t *testing.T) {
	owners := map[string]string{"m1": "p1"}
	sent := legacy.Text("2022-01-02 10:00:00")

	tests := []struct {
		name    string
		in      legacy.Message
		want    *models.Message
		wantErr bool
	}{
		{
			name: "text sent",
			in:   legacy.Message{ID: "x1", MatchID: "m1", Direction: strp("sent"), SentDate: sent, Content: strp("hi")},
			want: &models.Message{ID: "x1", MatchID: "m1", ProfileID: "p1", Direction: models.DirectionSent,
				SentAt: time.Date(2022, 1, 2, 10, 0, 0, 0, time.UTC), Type: models.MessageTypeText, Content: "hi"},
		},
		{
			name: "gif received",
			in:   legacy.Message{ID: "x2", MatchID: "m1", Direction: strp("Received"), SentDate: sent, GifURL: strp("https://gif")},
			want: &models.Message{ID: "x2", MatchID: "m1", ProfileID: "p1", Direction: models.DirectionReceived,
				SentAt: time.Date(2022, 1, 2, 10, 0, 0, 0, time.UTC), Type: models.MessageTypeGIF, ContentRef: strp("https://gif")},
		},
		{
			name:    "unknown direction",
			in:      legacy.Message{ID: "x3", MatchID: "m1", Direction: strp("sideways"), SentDate: sent},
			wantErr: true,
		},
		{
			name:    "match not migrated",
			in:      legacy.Message{ID: "x4", MatchID: "m9", Direction: strp("sent"), SentDate: sent},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convertMessage(tt.in, owners)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("convertMessage() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConvertPurchase(t *testing.T) {
	birth := time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC)
	create := time.Date(2021, 7, 8, 0, 0, 0, 0, time.UTC)

	got, err := convertPurchase(legacy.Purchase{
		ID:         "pu1",
		BirthDate:  legacy.Text("1990-04-02T13:00:00Z"),
		CreateDate: legacy.At(create.Add(5 * time.Hour)),
		Currency:   strp("eur"),
	})
	if err != nil {
		t.Fatalf("convertPurchase() error = %v", err)
	}

	want := &models.Purchase{
		ID:          "pu1",
		ProfileID:   services.CanonicalProfileID(birth, create),
		Product:     "unknown",
		Currency:    "EUR",
		PurchasedAt: create.Add(5 * time.Hour),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("convertPurchase() = %+v, want %+v", got, want)
	}

	if _, err := convertPurchase(legacy.Purchase{ID: "pu2", CreateDate: legacy.At(create)}); !errors.Is(err, errMissing) {
		t.Errorf("missing birth date error = %v, want errMissing", err)
	}
}

func TestConvertMedia(t *testing.T) {
	got, err := convertMedia(legacy.Media{ID: "md1", ProfileID: "p", Type: strp("VIDEO"), URL: strp(" https://v "), FromSoMe: new(bool)})
	if err != nil {
		t.Fatalf("convertMedia() error = %v", err)
	}
	if got.Type != models.MediaTypeVideo || got.URL != "https://v" {
		t.Errorf("convertMedia() = %+v", got)
	}
	if _, err := convertMedia(legacy.Media{ID: "md2", ProfileID: "p"}); !errors.Is(err, errMissing) {
		t.Errorf("missing url error = %v, want errMissing", err)
	}
}
