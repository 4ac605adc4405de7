package services

import "sync"

// Preference keys accepted by SetPref.
const (
	PrefAggregation           = "aggregation"
	PrefVisualisation         = "visualisation"
	PrefSelectedQuestionSetID = "selectedQuestionSetID"
)

// Preferences are the UI choices that persist for a session.
type Preferences struct {
	Aggregation           Aggregation   `json:"aggregation,omitempty"`
	Visualisation         Visualisation `json:"visualisation,omitempty"`
	SelectedQuestionSetID string        `json:"selectedQuestionSetID,omitempty"`
}

// With returns a copy of p with key set to value.
func (p Preferences) With(key, value string) (Preferences, error) {
	switch key {
	case PrefAggregation:
		a, ok := ParseAggregation(value)
		if !ok {
			return p, NewInvalidError("unknown aggregation " + value)
		}
		p.Aggregation = a
	case PrefVisualisation:
		v, ok := ParseVisualisation(value)
		if !ok {
			return p, NewInvalidError("unknown visualisation " + value)
		}
		p.Visualisation = v
	case PrefSelectedQuestionSetID:
		p.SelectedQuestionSetID = value
	default:
		return p, NewInvalidError("unknown preference " + key)
	}
	return p, nil
}

// EffectiveAggregation falls back to per-question aggregation whenever
// category aggregation is not possible for the selected data.
func (p Preferences) EffectiveAggregation(categoryPossible bool) Aggregation {
	if p.Aggregation == AggregationCategory && categoryPossible {
		return AggregationCategory
	}
	return AggregationQuestion
}

func (p Preferences) EffectiveVisualisation() Visualisation {
	if p.Visualisation == "" {
		return VisualisationTable
	}
	return p.Visualisation
}

// PrefStore keeps one Preferences value per session key. Entries are replaced,
// never removed.
type PrefStore struct {
	mu    sync.RWMutex
	prefs map[string]Preferences
}

func NewPrefStore() *PrefStore {
	return &PrefStore{prefs: map[string]Preferences{}}
}

func (s *PrefStore) Get(session string) Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs[session]
}

func (s *PrefStore) SetPref(session, key, value string) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.prefs[session].With(key, value)
	if err != nil {
		return s.prefs[session], err
	}
	s.prefs[session] = next
	return next, nil
}
