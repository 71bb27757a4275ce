package card

const Invalid Card = 0

// Spades
const (
	SpadeA Card = iota + 0x01
	Spade2
	Spade3
	Spade4
	Spade5
	Spade6
	Spade7
	Spade8
	Spade9
	SpadeT
	SpadeJ
	SpadeQ
	SpadeK
)

// Hearts
const (
	HeartA Card = iota + 0x11
	Heart2
	Heart3
	Heart4
	Heart5
	Heart6
	Heart7
	Heart8
	Heart9
	HeartT
	HeartJ
	HeartQ
	HeartK
)

// Clubs
const (
	ClubA Card = iota + 0x21
	Club2
	Club3
	Club4
	Club5
	Club6
	Club7
	Club8
	Club9
	ClubT
	ClubJ
	ClubQ
	ClubK
)

// Diamonds
const (
	DiamondA Card = iota + 0x31
	Diamond2
	Diamond3
	Diamond4
	Diamond5
	Diamond6
	Diamond7
	Diamond8
	Diamond9
	DiamondT
	DiamondJ
	DiamondQ
	DiamondK
)

// FullDeck lists all 52 cards in fixed suit-then-rank order. This order is
// part of the reproducibility contract: a seeded shuffle always starts from
// this exact arrangement.
var FullDeck = []Card{
	SpadeA, Spade2, Spade3, Spade4, Spade5, Spade6, Spade7,
	Spade8, Spade9, SpadeT, SpadeJ, SpadeQ, SpadeK,
	HeartA, Heart2, Heart3, Heart4, Heart5, Heart6, Heart7,
	Heart8, Heart9, HeartT, HeartJ, HeartQ, HeartK,
	ClubA, Club2, Club3, Club4, Club5, Club6, Club7,
	Club8, Club9, ClubT, ClubJ, ClubQ, ClubK,
	DiamondA, Diamond2, Diamond3, Diamond4, Diamond5, Diamond6, Diamond7,
	Diamond8, Diamond9, DiamondT, DiamondJ, DiamondQ, DiamondK,
}
