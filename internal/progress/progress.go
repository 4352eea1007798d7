package progress

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

const (
	xpPerLevel         = 500
	xpVideoCompleted   = 50
	xpMealLogged       = 10
	completedThreshold = 0.9
)

type VideoProgress struct {
	PositionSeconds int       `json:"positionSeconds"`
	DurationSeconds int       `json:"durationSeconds"`
	Completed       bool      `json:"completed"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Progress is everything the app remembers about a user's activity, stored as one document.
// Only videos, xp and mealsLogged are interpreted here; any other top level key the client
// sends is kept verbatim in Extra and written back unchanged.
type Progress struct {
	Videos      map[int]VideoProgress      `json:"videos"`
	XP          int                        `json:"xp"`
	MealsLogged int                        `json:"mealsLogged"`
	Extra       map[string]json.RawMessage `json:"-"`
}

var knownProgressKeys = []string{"videos", "xp", "mealsLogged"}

// responseOnlyKeys are added by the API on the way out and never stored.
var responseOnlyKeys = []string{"level"}

func (p *Progress) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("progress document must be a JSON object")
	}

	type known Progress
	var k known
	if err := json.Unmarshal(data, &k); err != nil {
		return err
	}
	p.Videos, p.XP, p.MealsLogged = k.Videos, k.XP, k.MealsLogged

	for _, key := range knownProgressKeys {
		delete(doc, key)
	}
	for _, key := range responseOnlyKeys {
		delete(doc, key)
	}
	p.Extra = nil
	if len(doc) > 0 {
		p.Extra = doc
	}
	return nil
}

func (p Progress) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.document())
}

// document merges the typed fields over the extra keys.
func (p Progress) document() map[string]any {
	doc := make(map[string]any, len(p.Extra)+len(knownProgressKeys))
	for k, v := range p.Extra {
		doc[k] = v
	}
	videos := p.Videos
	if videos == nil {
		videos = map[int]VideoProgress{}
	}
	doc["videos"] = videos
	doc["xp"] = p.XP
	doc["mealsLogged"] = p.MealsLogged
	return doc
}

func newProgress() *Progress {
	return &Progress{
		Videos: map[int]VideoProgress{},
	}
}

func Level(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/xpPerLevel + 1
}

type ContinueItem struct {
	VideoID int `json:"videoId"`
	VideoProgress
}

// ContinueWatching returns up to limit unfinished videos, most recently watched first.
func ContinueWatching(p *Progress, limit int) []ContinueItem {
	items := make([]ContinueItem, 0)
	if p == nil || limit <= 0 {
		return items
	}

	for id, vp := range p.Videos {
		if vp.Completed || vp.PositionSeconds <= 0 {
			continue
		}
		items = append(items, ContinueItem{VideoID: id, VideoProgress: vp})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].UpdatedAt.Equal(items[j].UpdatedAt) {
			return items[i].VideoID < items[j].VideoID
		}
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})

	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
