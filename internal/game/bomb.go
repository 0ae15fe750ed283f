package game

// Bomb is a mirrored snapshot entity, never predicted. X and Y are tile
// coordinates.
type Bomb struct {
	ID        int     `json:"id"`
	PID       string  `json:"pid"`
	PName     string  `json:"pname"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Remaining float64 `json:"remaining"`
	Range     int     `json:"range"`
	Active    bool    `json:"active"`
}

// Explosion is a mirrored snapshot entity covering the harm window of a
// detonated bomb.
type Explosion struct {
	ID        int     `json:"id"`
	PID       string  `json:"pid"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Remaining float64 `json:"remaining"`
	Harmful   bool    `json:"harmful"`
	Active    bool    `json:"active"`
}
