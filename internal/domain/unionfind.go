package domain

// groups is a union-find over cell indices. Only same-owner cells are ever
// joined, so a single forest serves both players. Each root carries the
// union of the sides touched by its members.
type groups struct {
	parent []int
	rank   []uint8
	sides  []sideSet
}

func newGroups(n int) groups {
	g := groups{
		parent: make([]int, n),
		rank:   make([]uint8, n),
		sides:  make([]sideSet, n),
	}
	for i := range g.parent {
		g.parent[i] = i
	}
	return g
}

func (g *groups) find(i int) int {
	for g.parent[i] != i {
		g.parent[i] = g.parent[g.parent[i]]
		i = g.parent[i]
	}
	return i
}

// root finds the representative of i without path compression, so it is
// safe on a game that is only being read.
func (g *groups) root(i int) int {
	for g.parent[i] != i {
		i = g.parent[i]
	}
	return i
}

func (g *groups) union(a, b int) int {
	ra, rb := g.find(a), g.find(b)
	if ra == rb {
		return ra
	}
	if g.rank[ra] < g.rank[rb] {
		ra, rb = rb, ra
	}
	g.parent[rb] = ra
	g.sides[ra] |= g.sides[rb]
	if g.rank[ra] == g.rank[rb] {
		g.rank[ra]++
	}
	return ra
}

func (g groups) clone() groups {
	return groups{
		parent: append([]int(nil), g.parent...),
		rank:   append([]uint8(nil), g.rank...),
		sides:  append([]sideSet(nil), g.sides...),
	}
}
