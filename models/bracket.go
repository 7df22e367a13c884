package models

type BracketRound struct {
	Number  int     `json:"number"`
	Matches []Match `json:"matches"`
}

// BracketSnapshot is the read model returned to clients and archived on completion.
type BracketSnapshot struct {
	Tournament  Tournament     `json:"tournament"`
	Size        int            `json:"size"`
	TotalRounds int            `json:"total_rounds"`
	Rounds      []BracketRound `json:"rounds"`
	Awards      []RankingAward `json:"awards,omitempty"`
}
