package api

import "github.com/tandaclub/tanda/internal/models"

// Wire representations. Timestamps are unix seconds, amounts are int64
// minor units, matching the domain models.

type tandaJSON struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Creator      string `json:"creator"`
	Amount       int64  `json:"amount"`
	MaxMembers   int    `json:"max_members"`
	Status       string `json:"status"`
	CurrentCycle int    `json:"current_cycle"`
	TotalCycles  int    `json:"total_cycles"`
	CreatedAt    int64  `json:"created_at"`
	StartedAt    int64  `json:"started_at"`
	LastPayoutAt int64  `json:"last_payout_at"`
}

func toTandaJSON(t *models.Tanda) tandaJSON {
	return tandaJSON{
		ID:           t.ID,
		Name:         t.Name,
		Creator:      t.Creator,
		Amount:       t.Amount,
		MaxMembers:   t.MaxMembers,
		Status:       string(t.Status),
		CurrentCycle: t.CurrentCycle,
		TotalCycles:  t.TotalCycles,
		CreatedAt:    t.CreatedAt,
		StartedAt:    t.StartedAt,
		LastPayoutAt: t.LastPayoutAt,
	}
}

type memberJSON struct {
	Address      string `json:"address"`
	Status       string `json:"status"`
	Position     int    `json:"position"`
	HasDeposited bool   `json:"has_deposited"`
	JoinedAt     int64  `json:"joined_at"`
}

func toMemberJSON(roster models.Roster) []memberJSON {
	out := make([]memberJSON, len(roster))
	for i, m := range roster {
		out[i] = memberJSON{
			Address:      m.Address,
			Status:       string(m.Status),
			Position:     m.Position,
			HasDeposited: m.HasDeposited,
			JoinedAt:     m.JoinedAt,
		}
	}
	return out
}

type userJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"created_at"`
}

func toUserJSON(u *models.User) userJSON {
	return userJSON{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}
