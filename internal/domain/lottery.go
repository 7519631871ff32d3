package domain

// Lottery is a draw ("loteria") with its daily betting window.
type Lottery struct {
	ID       string  `json:"id"`
	Name     string  `json:"nombre"`
	Code     string  `json:"codigo"`
	Timezone string  `json:"zona_horaria"`
	Order    int     `json:"orden"`
	OpensAt  *string `json:"hora_inicio"`
	ClosesAt *string `json:"hora_cierre"`
}

const DefaultLotteryTimezone = "America/Santo_Domingo"
