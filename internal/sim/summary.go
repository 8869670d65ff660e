package sim

// Summary aggregates a batch of fight reports.
type Summary struct {
	RunID    string
	Fights   int
	Wins     int
	Losses   int
	Timeouts int
	// WinRate is Wins/Fights; timeouts count against the party.
	WinRate   float64
	AvgTurns  float64
	MinTurns  int
	MaxTurns  int
	AvgRounds float64
	// AvgSurvivors is the mean number of living players at the end of a fight.
	AvgSurvivors float64
	// DamageShare is each class's fraction of all damage players dealt to enemies.
	DamageShare map[string]float64
}

// Summarize folds reports into a Summary. An empty slice yields the zero Summary.
func Summarize(reports []FightReport) Summary {
	sum := Summary{Fights: len(reports), DamageShare: make(map[string]float64)}
	if len(reports) == 0 {
		return sum
	}
	var turns, rounds, survivors, damage int
	byClass := make(map[string]int)
	sum.MinTurns = reports[0].Turns
	for _, r := range reports {
		switch {
		case r.TimedOut:
			sum.Timeouts++
		case r.Won():
			sum.Wins++
		default:
			sum.Losses++
		}
		turns += r.Turns
		rounds += r.Rounds
		survivors += r.SurvivingPlayers
		sum.MinTurns = min(sum.MinTurns, r.Turns)
		sum.MaxTurns = max(sum.MaxTurns, r.Turns)
		for class, d := range r.DamageByClass {
			byClass[class] += d
			damage += d
		}
	}
	n := float64(len(reports))
	sum.WinRate = float64(sum.Wins) / n
	sum.AvgTurns = float64(turns) / n
	sum.AvgRounds = float64(rounds) / n
	sum.AvgSurvivors = float64(survivors) / n
	if damage > 0 {
		for class, d := range byClass {
			sum.DamageShare[class] = float64(d) / float64(damage)
		}
	}
	return sum
}
