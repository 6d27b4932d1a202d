package httptransport

import (
	"net/http"

	"blackjack-server/internal/game"
	"blackjack-server/internal/registry"
)

type PublicHandlers struct {
	reg *registry.Registry
}

func NewPublicHandlers(reg *registry.Registry) *PublicHandlers {
	return &PublicHandlers{reg: reg}
}

type scoreItem struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Score    int64  `json:"score"`
}

type playerItem struct {
	Username string `json:"username"`
	Policy   string `json:"policy"`
	Wealth   int64  `json:"wealth"`
	Scores   []int  `json:"scores,omitempty"`
}

type roomItem struct {
	Name    string       `json:"name"`
	Players []playerItem `json:"players"`
}

type tableItem struct {
	Name      string       `json:"name"`
	Phase     string       `json:"phase"`
	Countdown int          `json:"countdown"`
	Humans    int          `json:"humans"`
	Players   []playerItem `json:"players"`
}

func (h *PublicHandlers) Scoreboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricPublicQueryTotal.Add(1)
		limit, offset := ParsePagination(r)
		scores, err := h.reg.Scoreboard(r.Context())
		if err != nil {
			metricPublicQueryErrors.Add(1)
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		items := []scoreItem{}
		for i := offset; i < len(scores) && i < offset+limit; i++ {
			items = append(items, scoreItem{Rank: i + 1, Username: scores[i].Username, Score: scores[i].Score})
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(scores), "limit": limit, "offset": offset})
	}
}

func (h *PublicHandlers) Rooms() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		metricPublicQueryTotal.Add(1)
		items := []roomItem{}
		for _, room := range h.reg.RoomSnapshots() {
			item := roomItem{Name: room.Name, Players: []playerItem{}}
			for _, p := range room.Players {
				item.Players = append(item.Players, playerItem{Username: p.Username, Policy: p.Policy.String(), Wealth: p.Wealth})
			}
			items = append(items, item)
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *PublicHandlers) Tables() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricPublicQueryTotal.Add(1)
		items := []tableItem{}
		for _, sum := range h.reg.Tables(r.Context()) {
			item := tableItem{
				Name:      sum.Name,
				Phase:     string(sum.Phase),
				Countdown: sum.Countdown,
				Humans:    sum.Humans,
				Players:   []playerItem{},
			}
			for _, p := range sum.Players {
				item.Players = append(item.Players, tablePlayer(p))
			}
			items = append(items, item)
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *PublicHandlers) Users() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		metricPublicQueryTotal.Add(1)
		users := h.reg.ActiveUsers()
		if users == nil {
			users = []string{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": users})
	}
}

func tablePlayer(p game.PlayerScore) playerItem {
	return playerItem{
		Username: p.Username,
		Policy:   p.Policy.String(),
		Wealth:   p.Wealth,
		Scores:   []int{p.Scores[0], p.Scores[1]},
	}
}
