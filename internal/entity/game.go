package entity

const (
	StatusInProgress = "in_progress"
	StatusWin        = "win"
	StatusDraw       = "draw"
)

// GameResult is derived from a board on demand and never stored.
type GameResult struct {
	Status string
	Winner Cell
	Line   *WinningLine
}

func (that GameResult) IsOver() bool {
	return that.Status != StatusInProgress
}

// Result reports a win for either player, a draw on a full board, or a game in progress.
// PlayerX is checked first; in a legal game at most one player holds a line.
func (that *Board) Result() GameResult {
	for _, player := range [...]Cell{PlayerX, PlayerO} {
		if line, ok := that.Winner(player); ok {
			return GameResult{Status: StatusWin, Winner: player, Line: &line}
		}
	}

	if that.IsFull() {
		return GameResult{Status: StatusDraw}
	}

	return GameResult{Status: StatusInProgress}
}

// Game is the snapshot of a session handed to renderers.
type Game struct {
	Board     []string     `json:"board"`
	Turn      string       `json:"turn,omitempty"`
	Status    string       `json:"status"`
	Winner    string       `json:"winner,omitempty"`
	Line      *WinningLine `json:"line,omitempty"`
	HumanMark string       `json:"human_mark"`
	AIMark    string       `json:"ai_mark"`
	RestartIn int          `json:"restart_in,omitempty"`
}

// NewGameSnapshot builds the renderer view of board. turn is Empty once the game is over.
func NewGameSnapshot(board Board, turn, human, ai Cell) *Game {
	result := board.Result()

	game := &Game{
		Board:     board.Rows(),
		Status:    result.Status,
		Line:      result.Line,
		HumanMark: human.String(),
		AIMark:    ai.String(),
	}

	if result.Winner.IsPlayer() {
		game.Winner = result.Winner.String()
	}

	if !result.IsOver() && turn.IsPlayer() {
		game.Turn = turn.String()
	}

	return game
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusWin || that.Status == StatusDraw
}
