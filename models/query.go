package models

import (
	"fmt"
)

// PointFilter is a function type used to filter points in queries
type PointFilter func(p *PointView) bool

// TravelerFilter is a function type used to filter travelers in queries
type TravelerFilter func(t *TravelerView) bool

// FindPoint returns a point by its ID
func (s *Snapshot) FindPoint(id int64) (*PointView, error) {
	for i := range s.Points {
		if s.Points[i].ID == id {
			return &s.Points[i], nil
		}
	}
	return nil, fmt.Errorf("point with ID %d not found", id)
}

// FindWave returns a wave by its tag
func (s *Snapshot) FindWave(tag string) (*WaveView, error) {
	for i := range s.Waves {
		if s.Waves[i].Tag == tag {
			return &s.Waves[i], nil
		}
	}
	return nil, fmt.Errorf("wave %s not found", tag)
}

// TravelersOf returns the travelers attributed to a wave index
func (s *Snapshot) TravelersOf(wave int) []TravelerView {
	return s.FilterTravelers(func(t *TravelerView) bool { return t.Wave == wave })
}

// Neighbors returns the ids connected to a point by an edge
func (s *Snapshot) Neighbors(id int64) []int64 {
	var result []int64
	for _, e := range s.Edges {
		switch id {
		case e.From:
			result = append(result, e.To)
		case e.To:
			result = append(result, e.From)
		}
	}
	return result
}

// FilterPoints returns points that match the provided filter function
func (s *Snapshot) FilterPoints(filter PointFilter) []PointView {
	var result []PointView
	for i := range s.Points {
		if filter(&s.Points[i]) {
			result = append(result, s.Points[i])
		}
	}
	return result
}

// FilterTravelers returns travelers that match the provided filter function
func (s *Snapshot) FilterTravelers(filter TravelerFilter) []TravelerView {
	var result []TravelerView
	for i := range s.Travelers {
		if filter(&s.Travelers[i]) {
			result = append(result, s.Travelers[i])
		}
	}
	return result
}
