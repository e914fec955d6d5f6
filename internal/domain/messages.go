package domain

// ClientMessage is what the browser sends over the websocket.
type ClientMessage struct {
	Type       string   `json:"type"`
	Token      string   `json:"token,omitempty"`
	Column     int      `json:"column"`
	Stack      []string `json:"stack,omitempty"`
	HumanFirst *bool    `json:"humanFirst,omitempty"`
}

// ServerMessage is the envelope for everything pushed to the browser.
// Fields are omitted when they don't apply to the message type.
type ServerMessage struct {
	Type       string     `json:"type"`
	Message    string     `json:"message,omitempty"`
	MatchID    string     `json:"matchId,omitempty"`
	YourPiece  string     `json:"yourPiece,omitempty"`
	Stack      string     `json:"stack,omitempty"`
	Column     *int       `json:"column,omitempty"`
	AIColumn   *int       `json:"aiColumn,omitempty"`
	Board      string     `json:"board,omitempty"`
	Status     GameStatus `json:"status,omitempty"`
	Winner     string     `json:"winner,omitempty"`
	TotalMoves int        `json:"totalMoves,omitempty"`
}
