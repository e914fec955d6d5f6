package domain

// Piece is one cell of the board: empty, or one of the two players.
// PlayerA always moves first.
type Piece uint8

const (
	Empty Piece = iota
	PlayerA
	PlayerB
)

// Opponent returns the other player. Asking for the opponent of Empty is
// a programming error and panics rather than silently returning Empty.
func (p Piece) Opponent() Piece {
	switch p {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	}
	panic("domain: cannot get opponent of empty piece")
}

// Name returns a human readable name. Panics on Empty.
func (p Piece) Name() string {
	switch p {
	case PlayerA:
		return "PlayerA"
	case PlayerB:
		return "PlayerB"
	}
	panic("domain: empty piece has no name")
}

// letter is the single character used by the text board encoding.
func (p Piece) letter() byte {
	switch p {
	case PlayerA:
		return 'A'
	case PlayerB:
		return 'B'
	}
	return ' '
}
