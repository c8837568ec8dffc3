package draft

// OrderForRound derives the pick order for a round from the fixed base
// order. Snake drafts reverse every even round; non-snake drafts always
// use the base order. The result is a fresh slice.
func OrderForRound(base []string, round int, snake bool) []string {
	out := make([]string, len(base))
	copy(out, base)
	if snake && round%2 == 0 {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}
