package engine

// Clamp applies delta to a bounded resource such as health or mana and
// returns min(max(current+delta, 0), max).
func Clamp(current, delta, max int) int {
	return minInt(maxInt(current+delta, 0), max)
}

// AddBlock applies delta to a block value. Block is floored at zero but has
// no upper bound, so large block cards accumulate.
func AddBlock(block, delta int) int {
	return maxInt(block+delta, 0)
}
