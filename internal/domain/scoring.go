package domain

import "sort"

// HandScore is the per-category breakdown of a counted hand or crib.
type HandScore struct {
	Fifteens int
	Pairs    int
	Runs     int
	Flush    int
	Nobs     int
}

// Total sums every category.
func (h HandScore) Total() int {
	return h.Fifteens + h.Pairs + h.Runs + h.Flush + h.Nobs
}

// PegScore is the breakdown of points earned by a single pegged card.
type PegScore struct {
	Run    int
	Pairs  int
	Target int // 15 or 31 bonus
}

// Total sums every category.
func (p PegScore) Total() int {
	return p.Run + p.Pairs + p.Target
}

// ScoreHand counts a hand or crib together with the turned card.
func ScoreHand(cards []Card, turned Card, isCrib bool, v Variant) HandScore {
	all := make([]Card, 0, len(cards)+1)
	all = append(all, cards...)
	all = append(all, turned)
	return HandScore{
		Fifteens: Fifteens(all),
		Pairs:    Pairs(all),
		Runs:     Runs(all),
		Flush:    Flush(cards, isCrib, turned, v.Mega()),
		Nobs:     Nobs(cards, turned),
	}
}

// Fifteens awards 2 points for every subset of two or more cards summing to 15.
func Fifteens(cards []Card) int {
	cards = concrete(cards)
	n := len(cards)
	points := 0
	for mask := 1; mask < 1<<n; mask++ {
		size, sum := 0, 0
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				size++
				sum += cards[i].Value()
			}
		}
		if size >= 2 && sum == 15 {
			points += 2
		}
	}
	return points
}

// Pairs awards k*(k-1) for every group of k cards sharing a rank.
func Pairs(cards []Card) int {
	count := map[Rank]int{}
	for _, c := range concrete(cards) {
		count[c.Rank]++
	}
	points := 0
	for _, k := range count {
		points += k * (k - 1)
	}
	return points
}

// Runs scans rank-sorted cards once. Copies of a rank are folded into the
// open run's multiplier when the rank changes; a gap closes the run, which
// scores length*multiplier when at least three ranks long.
func Runs(cards []Card) int {
	cards = concrete(cards)
	if len(cards) < 3 {
		return 0
	}
	ords := make([]int, len(cards))
	for i, c := range cards {
		ords[i] = c.Ordinal()
	}
	sort.Ints(ords)

	points := 0
	length, mult, repeat := 1, 1, 1
	closeRun := func() {
		if length >= 3 {
			points += length * mult
		}
		length, mult = 1, 1
	}
	for i := 1; i < len(ords); i++ {
		if ords[i] == ords[i-1] {
			repeat++
			continue
		}
		mult *= repeat
		repeat = 1
		if ords[i] == ords[i-1]+1 {
			length++
			continue
		}
		closeRun()
	}
	mult *= repeat
	closeRun()
	return points
}

// Flush scores a hand whose cards share a suit. A hand flush scores its size,
// plus one when the turned card matches. A crib flush must include the
// turned card and scores the size of that set with no bonus. In mega mode a
// complementary pair of suits also qualifies.
func Flush(cards []Card, isCrib bool, turned Card, mega bool) int {
	cards = concrete(cards)
	if len(cards) < HandSize {
		return 0
	}
	if isCrib {
		if turned.IsJoker() {
			return 0
		}
		set := append(append([]Card{}, cards...), turned)
		if !sameSuitGroup(set, mega) {
			return 0
		}
		return len(set)
	}
	if !sameSuitGroup(cards, mega) {
		return 0
	}
	points := len(cards)
	if !turned.IsJoker() && sameSuitGroup([]Card{cards[0], turned}, mega) {
		points++
	}
	return points
}

func sameSuitGroup(cards []Card, mega bool) bool {
	first := suitKey(cards[0].Suit, mega)
	for _, c := range cards[1:] {
		if suitKey(c.Suit, mega) != first {
			return false
		}
	}
	return true
}

func suitKey(s Suit, mega bool) Suit {
	if !mega {
		return s
	}
	switch s {
	case SuitDiamonds:
		return SuitHearts
	case SuitSpades:
		return SuitClubs
	}
	return s
}

// Nobs awards 1 for a Jack in hand matching the turned card's suit.
func Nobs(cards []Card, turned Card) int {
	if turned.IsJoker() {
		return 0
	}
	for _, c := range cards {
		if c.Rank == RankJack && c.Suit == turned.Suit {
			return 1
		}
	}
	return 0
}

// Nibs awards 2 to the crib owner when the turned card is a Jack.
func Nibs(turned Card) int {
	if turned.Rank == RankJack {
		return 2
	}
	return 0
}

// PeggingPoints scores the newest card of seq given the updated total.
func PeggingPoints(seq []Card, total int) PegScore {
	var s PegScore
	if len(seq) == 0 {
		return s
	}

	for size := len(seq); size >= 3; size-- {
		if isPegRun(seq[len(seq)-size:]) {
			s.Run = size
			break
		}
	}

	last := seq[len(seq)-1]
	if !last.IsJoker() {
		k := 1
		for i := len(seq) - 2; i >= 0 && seq[i].Rank == last.Rank; i-- {
			k++
		}
		s.Pairs = k * (k - 1)
	}

	if total == 15 || total == PegLimit {
		s.Target = 2
	}
	return s
}

func isPegRun(window []Card) bool {
	seen := map[int]bool{}
	lo, hi := 99, 0
	for _, c := range window {
		if c.IsJoker() {
			return false
		}
		o := c.Ordinal()
		if seen[o] {
			return false
		}
		seen[o] = true
		lo = min(lo, o)
		hi = max(hi, o)
	}
	return hi-lo+1 == len(window)
}
