package card

type CardList []Card

func (cl *CardList) Init(cards []Card) {
	*cl = make([]Card, len(cards))
	copy(*cl, cards)
}

func (cl CardList) Count() int {
	return len(cl)
}

func (cl *CardList) Add(cards ...Card) {
	*cl = append(*cl, cards...)
}

func (cl CardList) Contains(c Card) bool {
	for _, cc := range cl {
		if cc == c {
			return true
		}
	}
	return false
}
