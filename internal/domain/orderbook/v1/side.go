package orderbookv1

// Side identifies which half of the book an order rests on.
type Side uint8

const (
	// SideNone is used when the feed carries no side, or an unrecognised one.
	SideNone Side = iota
	// SideBid is the buy side.
	SideBid
	// SideAsk is the sell side.
	SideAsk
)

// ParseSide maps the feed's side code. "B" is bid, "A" is ask, anything else is none.
func ParseSide(code string) Side {
	switch code {
	case "B":
		return SideBid
	case "A":
		return SideAsk
	default:
		return SideNone
	}
}

// IsReal reports whether s is a tradeable book side.
func (s Side) IsReal() bool {
	return s == SideBid || s == SideAsk
}

// Opposite returns the other side. SideNone has no opposite and is returned unchanged.
func (s Side) Opposite() Side {
	switch s {
	case SideBid:
		return SideAsk
	case SideAsk:
		return SideBid
	default:
		return SideNone
	}
}

func (s Side) String() string {
	switch s {
	case SideBid:
		return "B"
	case SideAsk:
		return "A"
	default:
		return "N"
	}
}
