package services

import (
	"container/heap"
	"math"
	"strings"

	"github.com/smarttransit/route-booking/internal/models"
)

const (
	// BaseFare and PerKmRate price a computed journey
	BaseFare  = 10.0
	PerKmRate = 0.5
	// AverageSpeed in km/h estimates journey time
	AverageSpeed = 60.0
)

type edge struct {
	to       string
	distance float64
	route    *models.Route
	forward  bool
}

type routeGraph struct {
	names map[string]string // normalized key to display name
	edges map[string][]edge
}

func cityKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// buildGraph treats every route as travelable in both directions
func buildGraph(routes []models.Route) *routeGraph {
	g := &routeGraph{
		names: make(map[string]string),
		edges: make(map[string][]edge),
	}
	for i := range routes {
		r := &routes[i]
		from, to := cityKey(r.From), cityKey(r.To)
		if from == "" || to == "" || r.Distance <= 0 {
			continue
		}
		if _, ok := g.names[from]; !ok {
			g.names[from] = strings.TrimSpace(r.From)
		}
		if _, ok := g.names[to]; !ok {
			g.names[to] = strings.TrimSpace(r.To)
		}
		g.edges[from] = append(g.edges[from], edge{to: to, distance: r.Distance, route: r, forward: true})
		g.edges[to] = append(g.edges[to], edge{to: from, distance: r.Distance, route: r, forward: false})
	}
	return g
}

type queueItem struct {
	city     string
	distance float64
}

type distanceQueue []queueItem

func (q distanceQueue) Len() int            { return len(q) }
func (q distanceQueue) Less(i, j int) bool  { return q[i].distance < q[j].distance }
func (q distanceQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *distanceQueue) Push(x interface{}) { *q = append(*q, x.(queueItem)) }
func (q *distanceQueue) Pop() interface{} {
	old := *q
	item := old[len(old)-1]
	*q = old[:len(old)-1]
	return item
}

// FindJourney returns the shortest chain of routes between two cities.
// City names match case-insensitively. The journey carries a RouteID only
// when it is a single route travelled in its own direction.
func FindJourney(routes []models.Route, from, to string) (*models.Journey, error) {
	start, end := cityKey(from), cityKey(to)
	if start == "" || end == "" {
		return nil, newValidationError("from and to are required")
	}
	if start == end {
		return nil, newValidationError("from and to must be different cities")
	}

	g := buildGraph(routes)
	if _, ok := g.edges[start]; !ok {
		return nil, ErrNoRoute
	}
	if _, ok := g.edges[end]; !ok {
		return nil, ErrNoRoute
	}

	dist := map[string]float64{start: 0}
	prev := make(map[string]edge)
	prevCity := make(map[string]string)
	queue := &distanceQueue{{city: start}}

	for queue.Len() > 0 {
		item := heap.Pop(queue).(queueItem)
		if item.city == end {
			break
		}
		if item.distance > dist[item.city] {
			continue
		}
		for _, e := range g.edges[item.city] {
			candidate := item.distance + e.distance
			if known, ok := dist[e.to]; ok && candidate >= known {
				continue
			}
			dist[e.to] = candidate
			prev[e.to] = e
			prevCity[e.to] = item.city
			heap.Push(queue, queueItem{city: e.to, distance: candidate})
		}
	}

	total, ok := dist[end]
	if !ok {
		return nil, ErrNoRoute
	}

	var legs []edge
	path := []string{g.names[end]}
	for city := end; city != start; city = prevCity[city] {
		legs = append(legs, prev[city])
		path = append(path, g.names[prevCity[city]])
	}
	reverseStrings(path)
	for i, j := 0, len(legs)-1; i < j; i, j = i+1, j-1 {
		legs[i], legs[j] = legs[j], legs[i]
	}

	journey := &models.Journey{
		Path:     path,
		Distance: round2(total),
		Time:     round2(total / AverageSpeed),
		Fare:     round2(BaseFare + total*PerKmRate),
		Coords:   joinCoords(legs),
	}
	if len(legs) == 1 && legs[0].forward {
		journey.RouteID = legs[0].route.ID
	}
	return journey, nil
}

// joinCoords concatenates leg geometries, dropping a junction point that
// repeats the previous leg's last point.
func joinCoords(legs []edge) models.Coordinates {
	coords := models.Coordinates{}
	for _, leg := range legs {
		points := leg.route.Coords
		if !leg.forward {
			points = points.Reversed()
		}
		for i, p := range points {
			if i == 0 && len(coords) > 0 && coords[len(coords)-1] == p {
				continue
			}
			coords = append(coords, p)
		}
	}
	return coords
}

func reverseStrings(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
