package engine

// WealthPoint is one cell of the wealth-trajectory table: the cash a player
// held after a given round (round 0 is the starting balance).
type WealthPoint struct {
	Round  int
	Player string
	Cash   float64
}

// WealthRows flattens the wealth series into a long-form table suitable for
// time-series charting. Rows are ordered by round, then player id.
func (s *State) WealthRows() []WealthPoint {
	ids := s.PlayerIDs()
	if len(ids) == 0 {
		return nil
	}
	points := len(s.Wealth[ids[0]])
	rows := make([]WealthPoint, 0, points*len(ids))
	for round := 0; round < points; round++ {
		for _, id := range ids {
			rows = append(rows, WealthPoint{
				Round:  round,
				Player: s.Players[id].Name,
				Cash:   s.Wealth[id][round],
			})
		}
	}
	return rows
}
