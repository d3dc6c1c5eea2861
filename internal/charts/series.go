package charts

// Kind selects how the renderer draws a chart.
type Kind string

const (
	KindPie  Kind = "pie"
	KindBar  Kind = "bar"
	KindLine Kind = "line"
)

// Series maps category labels to values. Labels keep the order in which
// categories were first seen.
type Series struct {
	Label  string    `json:"label"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// add accumulates v into category, appending the category if it is new.
func (s *Series) add(index map[string]int, category string, v float64) {
	if i, ok := index[category]; ok {
		s.Values[i] += v
		return
	}
	index[category] = len(s.Labels)
	s.Labels = append(s.Labels, category)
	s.Values = append(s.Values, v)
}

func (s Series) Map() map[string]float64 {
	m := make(map[string]float64, len(s.Labels))
	for i, l := range s.Labels {
		m[l] = s.Values[i]
	}
	return m
}

func (s Series) Len() int { return len(s.Labels) }

type Chart struct {
	ID     string `json:"id"`
	Kind   Kind   `json:"kind"`
	Series Series `json:"series"`
}
