package services

// RadarSeries is one meeting plotted on the radar chart.
type RadarSeries struct {
	Meeting MeetingRef         `json:"meeting"`
	Values  map[string]float64 `json:"values"`
}

type Radar struct {
	Aggregation Aggregation   `json:"aggregation"`
	Axes        []string      `json:"axes"`
	Series      []RadarSeries `json:"series"`
}

// BuildRadar plots meetings oldest first. Axes are the union of labels across
// all meetings in first-seen order, using the same label rules as the table.
func BuildRadar(meetings []*Meeting, agg Aggregation) Radar {
	out := Radar{Aggregation: agg, Axes: []string{}, Series: []RadarSeries{}}
	seen := map[string]bool{}
	for _, m := range SortMeetingsByConducted(meetings, true) {
		s := RadarSeries{Meeting: refFor(m), Values: map[string]float64{}}
		add := func(name string, v float64) {
			s.Values[name] = v
			if !seen[name] {
				seen[name] = true
				out.Axes = append(out.Axes, name)
			}
		}
		if agg == AggregationCategory {
			eachCategory(m, add)
		} else {
			eachAnswer(m, add)
		}
		out.Series = append(out.Series, s)
	}
	return out
}
