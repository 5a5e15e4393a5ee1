package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
)

// Coordinate is a single point on a route path
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UnmarshalJSON accepts {"lat","lng"} objects and [lat, lng] pairs
func (p *Coordinate) UnmarshalJSON(b []byte) error {
	var pair []float64
	if err := json.Unmarshal(b, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("coordinate pair needs 2 values, got %d", len(pair))
		}
		p.Lat, p.Lng = pair[0], pair[1]
		return nil
	}

	type plain Coordinate
	var obj plain
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("invalid coordinate: %w", err)
	}
	*p = Coordinate(obj)
	return nil
}

// Coordinates is an ordered path geometry, stored as JSONB in PostgreSQL
type Coordinates []Coordinate

// Value implements the driver.Valuer interface
func (c Coordinates) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c)
}

// Scan implements the sql.Scanner interface
func (c *Coordinates) Scan(src interface{}) error {
	if src == nil {
		*c = Coordinates{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Coordinates", src)
	}

	if len(data) == 0 {
		*c = Coordinates{}
		return nil
	}

	var coords []Coordinate
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("failed to decode coordinates: %w", err)
	}
	*c = coords
	return nil
}

// Reversed returns a copy of the path in the opposite direction
func (c Coordinates) Reversed() Coordinates {
	out := make(Coordinates, len(c))
	for i := range c {
		out[len(c)-1-i] = c[i]
	}
	return out
}

// SeatIDArray is a custom type for handling TEXT[] seat id arrays in PostgreSQL
type SeatIDArray []string

// Value implements the driver.Valuer interface
func (a SeatIDArray) Value() (driver.Value, error) {
	if a == nil {
		return pq.Array([]string{}).Value()
	}
	return pq.Array([]string(a)).Value()
}

// Scan implements the sql.Scanner interface
func (a *SeatIDArray) Scan(src interface{}) error {
	if src == nil {
		*a = SeatIDArray{}
		return nil
	}
	slice := (*[]string)(a)
	return pq.Array(slice).Scan(src)
}
