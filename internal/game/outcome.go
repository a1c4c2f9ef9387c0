package game

import "encoding/json"

type Status int

const (
	StatusInProgress Status = iota
	StatusWin
	StatusDraw
)

func (s Status) String() string {
	switch s {
	case StatusWin:
		return "win"
	case StatusDraw:
		return "draw"
	}
	return "in_progress"
}

// Outcome is the result of Board.Evaluate. Winner is set only for StatusWin.
type Outcome struct {
	Status Status
	Winner Player
}

var (
	InProgress = Outcome{Status: StatusInProgress}
	Draw       = Outcome{Status: StatusDraw}
)

func Win(p Player) Outcome {
	return Outcome{Status: StatusWin, Winner: p}
}

func (o Outcome) IsTerminal() bool {
	return o.Status != StatusInProgress
}

func (o Outcome) String() string {
	if o.Status == StatusWin {
		return "win(" + o.Winner.String() + ")"
	}
	return o.Status.String()
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	v := struct {
		Status string `json:"status"`
		Winner Player `json:"winner,omitempty"`
	}{Status: o.Status.String(), Winner: o.Winner}
	return json.Marshal(v)
}
