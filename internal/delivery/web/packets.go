package web

import (
	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
	"github.com/aliskhannn/prophets-duas-bot/internal/render"
)

// StateResponse is a view state on the wire.
type StateResponse struct {
	Route    string `json:"route"`
	Selected string `json:"dua,omitempty"`
	Query    string `json:"q,omitempty"`
	Prophet  string `json:"prophet,omitempty"`
	Topic    string `json:"topic,omitempty"`
	Source   string `json:"source,omitempty"`
}

// RouteResponse answers GET /api/route.
type RouteResponse struct {
	State     StateResponse `json:"state"`
	Hash      string        `json:"hash"`
	ShareLink string        `json:"shareLink,omitempty"`
}

// SegmentResponse is a highlighted run of text.
type SegmentResponse struct {
	Text string `json:"text"`
	Mark bool   `json:"mark,omitempty"`
}

// BlockResponse is a labeled text block.
type BlockResponse struct {
	Label string            `json:"label"`
	Text  []SegmentResponse `json:"text"`
}

// CardResponse is one card of a list.
type CardResponse struct {
	ID          string            `json:"id"`
	Title       []SegmentResponse `json:"title"`
	RefLine     []SegmentResponse `json:"refLine"`
	Attribution string            `json:"attribution"`
	SourceType  string            `json:"sourceType"`
	Arabic      string            `json:"arabic,omitempty"`
	Blocks      []BlockResponse   `json:"blocks"`
	Tags        []string          `json:"tags"`
	Reflection  []SegmentResponse `json:"reflection,omitempty"`
	Sources     []string          `json:"sources"`
	Favorite    bool              `json:"favorite"`
}

// ListResponse answers GET /api/duas.
type ListResponse struct {
	State StateResponse  `json:"state"`
	Found int            `json:"found"`
	Total int            `json:"total"`
	Items []CardResponse `json:"items"`
}

// DetailResponse answers GET /api/duas/:id.
type DetailResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	RefLine     string          `json:"refLine"`
	Attribution string          `json:"attribution"`
	SourceType  string          `json:"sourceType"`
	Arabic      string          `json:"arabic,omitempty"`
	Blocks      []BlockResponse `json:"blocks"`
	Tags        []string        `json:"tags"`
	Reflection  string          `json:"reflection,omitempty"`
	Sources     []string        `json:"sources"`
	Favorite    bool            `json:"favorite"`
	FullCopy    string          `json:"fullCopy"`
	ShareLink   string          `json:"shareLink"`
	Dua         entities.Dua    `json:"dua"`
}

// FavoriteResponse answers POST /api/favorites/:id.
type FavoriteResponse struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

// OnboardingResponse answers GET /api/onboarding.
type OnboardingResponse struct {
	Seen  bool                    `json:"seen"`
	Steps []render.OnboardingStep `json:"steps"`
}

// TourResponse is the state of the onboarding tour.
type TourResponse struct {
	Open     bool     `json:"open"`
	Seen     bool     `json:"seen"`
	Step     int      `json:"step"`
	Total    int      `json:"total"`
	Controls []string `json:"controls"`
	Focused  string   `json:"focused,omitempty"`
}

// HealthResponse answers GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Duas   int    `json:"duas"`
}

func toState(s entities.ViewState) StateResponse {
	return StateResponse{
		Route:    string(s.Route),
		Selected: s.Selected,
		Query:    s.Query,
		Prophet:  s.Prophet,
		Topic:    s.Topic,
		Source:   s.Source,
	}
}

func toSegments(segs []render.Segment) []SegmentResponse {
	out := make([]SegmentResponse, 0, len(segs))
	for _, s := range segs {
		out = append(out, SegmentResponse{Text: s.Text, Mark: s.Mark})
	}
	return out
}

func toBlocks(blocks []render.Block) []BlockResponse {
	out := make([]BlockResponse, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, BlockResponse{Label: b.Label, Text: toSegments(b.Text)})
	}
	return out
}

func toCard(v render.CardView) CardResponse {
	return CardResponse{
		ID:          v.ID,
		Title:       toSegments(v.Title),
		RefLine:     toSegments(v.RefLine),
		Attribution: v.Attribution,
		SourceType:  v.SourceType,
		Arabic:      v.Arabic,
		Blocks:      toBlocks(v.Blocks),
		Tags:        nonNil(v.Tags),
		Reflection:  toSegments(v.Reflection),
		Sources:     nonNil(v.Sources),
		Favorite:    v.Favorite,
	}
}

func toDetail(v render.DetailView, d entities.Dua, share string) DetailResponse {
	return DetailResponse{
		ID:          v.ID,
		Title:       v.Title,
		RefLine:     v.RefLine,
		Attribution: v.Attribution,
		SourceType:  v.SourceType,
		Arabic:      v.Arabic,
		Blocks:      toBlocks(v.Blocks),
		Tags:        nonNil(v.Tags),
		Reflection:  v.Reflection,
		Sources:     nonNil(v.Sources),
		Favorite:    v.Favorite,
		FullCopy:    v.FullCopy,
		ShareLink:   share,
		Dua:         d,
	}
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
