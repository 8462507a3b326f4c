package highlight

// Tokenize splits one line into scoped tokens, starting in state start,
// and returns the tokens with the state at the end of the line.
//
// At each offset every rule of the current state is tried; the earliest
// match wins, then the longest, then the first rule. Text no rule matches
// takes the state's scope. Zero-width matches count only when they change
// state, and at most once per offset. Tokens with an empty scope are
// omitted.
func Tokenize(g *Grammar, line string, start State) ([]Token, State) {
	if g == nil {
		return nil, start
	}

	state := start
	var tokens []Token
	pos := 0
	zeroAt := -1

	for pos <= len(line) {
		def := g.state(state)

		var best *Rule
		bestStart, bestEnd := 0, 0
		for i := range def.Rules {
			r := &def.Rules[i]
			if r.anchored && pos > 0 {
				continue
			}
			loc := r.Pattern.FindStringIndex(line[pos:])
			if loc == nil {
				continue
			}
			s, e := pos+loc[0], pos+loc[1]
			if s == e && (!r.changesState() || s == zeroAt) {
				continue
			}
			if best == nil || s < bestStart || (s == bestStart && e > bestEnd) {
				best, bestStart, bestEnd = r, s, e
			}
		}

		if best == nil {
			tokens = appendToken(tokens, pos, len(line), def.Scope)
			break
		}

		tokens = appendToken(tokens, pos, bestStart, def.Scope)
		scope := best.Scope
		if scope == "" {
			scope = def.Scope
		}
		tokens = appendToken(tokens, bestStart, bestEnd, scope)

		if bestStart == bestEnd {
			zeroAt = bestStart
		}
		pos = bestEnd
		state = best.apply(state)
	}

	return tokens, state
}

func (r *Rule) changesState() bool {
	return r.Pop || r.Push != ""
}

func (r *Rule) apply(s State) State {
	if r.Pop {
		s = s.Pop()
	}
	if r.Push != "" {
		s = s.Push(r.Push)
	}
	return s
}

// appendToken adds [start, end) with scope, merging with the previous
// token when they touch and share a scope.
func appendToken(tokens []Token, start, end int, scope string) []Token {
	if start >= end || scope == "" {
		return tokens
	}
	if n := len(tokens); n > 0 && tokens[n-1].End == start && tokens[n-1].Scope == scope {
		tokens[n-1].End = end
		return tokens
	}
	return append(tokens, Token{Start: start, End: end, Scope: scope})
}
