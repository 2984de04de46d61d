package sakenowa

import (
	"encoding/json"
	"fmt"
)

// ExternalID is a catalog-assigned natural key, normalized to its string
// form. The upstream API has shipped both numeric and string ids across
// versions, so both wire forms are accepted; string is canonical to
// tolerate leading zeros and non-numeric ids.
type ExternalID string

// UnmarshalJSON accepts a JSON string or number.
func (e *ExternalID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = ExternalID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*e = ExternalID(n.String())
		return nil
	}

	return fmt.Errorf("external id must be a string or number, got %s", data)
}

// String returns the canonical string form.
func (e ExternalID) String() string {
	return string(e)
}

// FlavorValue is one flavor axis from a flavor-chart record. The zero value
// means the axis was absent and defaults to 0.0. A non-numeric wire value
// marks the whole record malformed instead of failing the payload decode.
type FlavorValue struct {
	value   float64
	invalid bool
}

// UnmarshalJSON tolerates null and non-numeric values; only numbers set a
// value.
func (v *FlavorValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		v.invalid = true
		return nil
	}
	v.value = f
	return nil
}

// Value returns the axis value, 0 when the axis was absent.
func (v FlavorValue) Value() float64 {
	return v.value
}

// Invalid reports whether the wire carried a non-numeric value.
func (v FlavorValue) Invalid() bool {
	return v.invalid
}

// Area is one record from the areas endpoint.
type Area struct {
	ID   ExternalID `json:"id"`
	Name string     `json:"name"`
}

// Brewery is one record from the breweries endpoint. AreaID references an
// area by its external id.
type Brewery struct {
	ID     ExternalID `json:"id"`
	Name   string     `json:"name"`
	AreaID ExternalID `json:"areaId"`
}

// Brand is one record from the brands endpoint. BreweryID references a
// brewery by its external id.
type Brand struct {
	ID        ExternalID `json:"id"`
	Name      string     `json:"name"`
	BreweryID ExternalID `json:"breweryId"`
}

// FlavorChart is one record from the flavor-charts endpoint. Absent axes
// default to 0.0.
type FlavorChart struct {
	BrandID ExternalID  `json:"brandId"`
	F1      FlavorValue `json:"f1"`
	F2      FlavorValue `json:"f2"`
	F3      FlavorValue `json:"f3"`
	F4      FlavorValue `json:"f4"`
	F5      FlavorValue `json:"f5"`
	F6      FlavorValue `json:"f6"`
}

// Invalid reports whether any axis carried a non-numeric value. Such
// records are skipped per-record during reconciliation.
func (c *FlavorChart) Invalid() bool {
	for _, v := range []FlavorValue{c.F1, c.F2, c.F3, c.F4, c.F5, c.F6} {
		if v.Invalid() {
			return true
		}
	}
	return false
}

// Axes returns the six axis values with absent axes as 0.0.
func (c *FlavorChart) Axes() [6]float64 {
	return [6]float64{
		c.F1.Value(), c.F2.Value(), c.F3.Value(),
		c.F4.Value(), c.F5.Value(), c.F6.Value(),
	}
}

// FlavorTag is one record from the flavor-tags endpoint.
type FlavorTag struct {
	ID   ExternalID `json:"id"`
	Name string     `json:"tag"`
}

// UnmarshalJSON accepts both the "tag" field name used by the live API and
// the older "name" form.
func (t *FlavorTag) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID   ExternalID `json:"id"`
		Tag  string     `json:"tag"`
		Name string     `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.ID = raw.ID
	t.Name = raw.Tag
	if t.Name == "" {
		t.Name = raw.Name
	}
	return nil
}

// BrandFlavorTags links one brand to its flavor tags by external ids.
type BrandFlavorTags struct {
	BrandID ExternalID   `json:"brandId"`
	TagIDs  []ExternalID `json:"tagIds"`
}

// RankingItem is one position in a ranking list. Score is optional
// upstream and defaults to 0.0.
type RankingItem struct {
	BrandID ExternalID `json:"brandId"`
	Rank    int        `json:"rank"`
	Score   *float64   `json:"score"`
}

// ScoreValue returns the score with absent scores as 0.0.
func (r *RankingItem) ScoreValue() float64 {
	if r.Score == nil {
		return 0
	}
	return *r.Score
}

// AreaRanking is the per-area ranking breakdown from the rankings
// endpoint.
type AreaRanking struct {
	AreaID  ExternalID    `json:"areaId"`
	Ranking []RankingItem `json:"ranking"`
}

// Rankings is the full rankings payload: one global list plus per-area
// lists.
type Rankings struct {
	Overall []RankingItem `json:"overall"`
	Areas   []AreaRanking `json:"areas"`
}
