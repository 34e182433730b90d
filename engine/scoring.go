package engine

// Score values for the components of a hand's score card.
const (
	TotalSafeties = 4

	SafetyScore        = 100
	AllSafetiesScore   = 300
	CoupFourreScore    = 300
	TripCompletedScore = 400
	DelayedActionScore = 300
	SafeTripScore      = 300
	ShutOutScore       = 500
	ExtensionScore     = 200
)

// ScoreCard is a player's per-hand tally, computed once the hand completes.
// Components below the first four apply only to the hand's winner.
type ScoreCard struct {
	Distance      int `json:"distance"`
	Safeties      int `json:"safeties"`
	AllSafeties   int `json:"all_safeties"`
	CoupsFourres  int `json:"coups_fourres"`
	TripCompleted int `json:"trip_completed"`
	DelayedAction int `json:"delayed_action"`
	SafeTrip      int `json:"safe_trip"`
	ShutOut       int `json:"shut_out"`
	Extension     int `json:"extension"`
	Total         int `json:"total"`
}

// add accumulates another score card into this one, component by component.
func (s *ScoreCard) add(other ScoreCard) {
	s.Distance += other.Distance
	s.Safeties += other.Safeties
	s.AllSafeties += other.AllSafeties
	s.CoupsFourres += other.CoupsFourres
	s.TripCompleted += other.TripCompleted
	s.DelayedAction += other.DelayedAction
	s.SafeTrip += other.SafeTrip
	s.ShutOut += other.ShutOut
	s.Extension += other.Extension
	s.Total += other.Total
}

// sum recomputes the total from the individual components.
func (s *ScoreCard) sum() {
	s.Total = s.Distance + s.Safeties + s.AllSafeties + s.CoupsFourres +
		s.TripCompleted + s.DelayedAction + s.SafeTrip + s.ShutOut + s.Extension
}
