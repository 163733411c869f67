package graph

// DegreeStats summarises the degree distribution of a graph.
type DegreeStats struct {
	Min, Max int
	Mean     float64
}

func (g *Graph) DegreeStats() DegreeStats {
	if g == nil || g.N == 0 {
		return DegreeStats{}
	}
	s := DegreeStats{Min: g.Degree(0), Max: g.Degree(0)}
	total := 0
	for v := 0; v < g.N; v++ {
		d := g.Degree(v)
		total += d
		s.Min = min(s.Min, d)
		s.Max = max(s.Max, d)
	}
	s.Mean = float64(total) / float64(g.N)
	return s
}

// Diameter is the longest finite shortest-path distance.
func (g *Graph) Diameter() int {
	d := 0
	for _, row := range g.Distances() {
		for _, v := range row {
			d = max(d, v)
		}
	}
	return d
}
