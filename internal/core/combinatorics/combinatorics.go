// Package combinatorics provides content-space accounting for authored
// gossip catalogs.
//
// The numbers are used offline to detect templates whose expressible
// instance space is small enough to visibly repeat, and to verify authored
// variety scales with virality. Nothing here runs on the propagation hot
// path.
package combinatorics

// SpaceSize returns the number of distinct instances expressible from a
// template whose variables have the given pool arities and which carries
// the given number of embellishments.
//
// The space is the product of the arities times (embellishments + 1): each
// instance either carries no embellishment or exactly one of them. Callers
// substitute the synthetic arity for unpooled variables before calling. A
// template with no variables still has a space of at least 1.
func SpaceSize(arities []int, embellishments int) uint64 {
	size := uint64(1)
	for _, arity := range arities {
		if arity <= 0 {
			continue
		}
		size *= uint64(arity)
	}
	if embellishments < 0 {
		embellishments = 0
	}
	return size * uint64(embellishments+1)
}
