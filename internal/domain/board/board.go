// Package board defines the fixed cyclic game board.
// This package is PURE and must NOT import any infrastructure packages.
package board

// SpaceType is the kind of cell a token can land on.
type SpaceType string

const (
	SpaceStart      SpaceType = "start"
	SpaceInvest     SpaceType = "invest"
	SpacePayday     SpaceType = "payday"
	SpaceLife       SpaceType = "life"
	SpaceHustle     SpaceType = "hustle"
	SpaceTemptation SpaceType = "temptation"
	SpaceChallenge  SpaceType = "challenge"
	SpaceBank       SpaceType = "bank"
)

// Space is one board cell.
type Space struct {
	Index int       `json:"index"`
	Type  SpaceType `json:"type"`
	Icon  string    `json:"icon"`
	Label string    `json:"label"`
	Color string    `json:"color"`
}

// Size is the number of cells on the board.
const Size = 20

var layout = [Size]SpaceType{
	SpaceStart, SpaceInvest, SpaceLife, SpaceHustle, SpaceInvest,
	SpacePayday, SpaceTemptation, SpaceInvest, SpaceLife, SpaceChallenge,
	SpaceBank, SpaceInvest, SpacePayday, SpaceHustle, SpaceLife,
	SpaceInvest, SpaceTemptation, SpaceChallenge, SpaceBank, SpacePayday,
}

var display = map[SpaceType]struct{ icon, label, color string }{
	SpaceStart:      {"🏁", "GO", "amber"},
	SpaceInvest:     {"🏪", "Invest", "emerald"},
	SpaceLife:       {"🎲", "Life", "rose"},
	SpaceHustle:     {"💼", "Hustle", "purple"},
	SpacePayday:     {"💰", "Payday", "amber"},
	SpaceTemptation: {"🛍️", "Want!", "pink"},
	SpaceChallenge:  {"🧠", "Quiz", "cyan"},
	SpaceBank:       {"🏦", "Bank", "indigo"},
}

// Spaces returns the board in index order.
func Spaces() []Space {
	out := make([]Space, Size)
	for i := range layout {
		out[i] = At(i)
	}
	return out
}

// At returns the cell at pos, wrapping out-of-range indices.
func At(pos int) Space {
	i := Wrap(pos)
	d := display[layout[i]]
	return Space{Index: i, Type: layout[i], Icon: d.icon, Label: d.label, Color: d.color}
}

// Wrap maps any integer onto [0, Size).
func Wrap(pos int) int {
	return ((pos % Size) + Size) % Size
}

// Step advances one cell from pos. passedGo is true when the move wraps onto
// or past the start cell.
func Step(pos int) (next int, passedGo bool) {
	next = Wrap(pos + 1)
	return next, next == 0
}

// Advance moves n cells from pos in one shot. passedGo reports a wrap.
func Advance(pos, n int) (next int, passedGo bool) {
	raw := Wrap(pos) + n
	return Wrap(raw), raw >= Size
}
