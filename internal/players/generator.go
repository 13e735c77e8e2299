package players

import (
	"fmt"
	"math"
	"time"

	"AgencyEngine/internal/ids"
	"AgencyEngine/internal/model"
	"AgencyEngine/internal/random"
)

var (
	firstNames = []string{"Luca", "Mateo", "Kofi", "Jonas", "Rafael", "Yuki", "Emil", "Tiago", "Ibrahim", "Noah", "Sami", "Diego"}
	lastNames  = []string{"Silva", "Okafor", "Lindqvist", "Moreau", "Tanaka", "Rossi", "Novak", "Mensah", "Costa", "Weber", "Haddad", "Ortega"}

	attributeNames = []string{"pace", "shooting", "passing", "dribbling", "defending", "physical"}
)

// Clock supplies the date contracts are drawn from.
type Clock interface {
	Today() time.Time
}

// Generator creates players within constraints using the game's random source.
type Generator struct {
	rng   random.Rand
	ids   *ids.Sequence
	clock Clock
}

// NewGenerator returns a Generator.
func NewGenerator(rng random.Rand, seq *ids.Sequence, clock Clock) *Generator {
	return &Generator{rng: rng, ids: seq, clock: clock}
}

// GeneratePlayer draws a player honouring every set constraint.
func (g *Generator) GeneratePlayer(c model.PlayerConstraints) (model.Player, error) {
	minAge, maxAge := orDefault(c.MinAge, 16), orDefault(c.MaxAge, 32)
	minRating, maxRating := orDefault(c.MinRating, 45), orDefault(c.MaxRating, 80)
	if minAge > maxAge || minRating > maxRating {
		return model.Player{}, fmt.Errorf("invalid constraints: age %d-%d rating %d-%d", minAge, maxAge, minRating, maxRating)
	}

	pos := c.Position
	if pos == "" {
		pos = model.Positions[g.rng.IntN(len(model.Positions))]
	}
	nationality := c.Nationality
	if nationality == "" {
		nationality = "INT"
	}

	age := random.Between(g.rng, minAge, maxAge)
	rating := random.Between(g.rng, minRating, maxRating)
	potential := min(99, rating+random.Between(g.rng, 0, 15)+c.PotentialBonus)
	if age > 29 {
		potential = rating
	}
	form := random.Between(g.rng, 50, 90)

	attrs := make(map[string]int, len(attributeNames))
	for _, name := range attributeNames {
		attrs[name] = clampInt(rating+random.Between(g.rng, -10, 10), 1, 99)
	}

	today := g.clock.Today()
	p := model.Player{
		ID:          g.ids.Next("player"),
		Name:        firstNames[g.rng.IntN(len(firstNames))] + " " + lastNames[g.rng.IntN(len(lastNames))],
		Age:         age,
		Position:    pos,
		Nationality: nationality,
		TeamID:      fmt.Sprintf("club_%s_%d", nationality, random.Between(g.rng, 1, 20)),
		Rating:      rating,
		Potential:   potential,
		Form:        &form,
		ContractEnd: today.AddDate(0, random.Between(g.rng, 6, 48), 0),
		Attributes:  attrs,
	}
	p.Value = Valuation(p)
	return p, nil
}

// Valuation prices a player from rating, growth headroom and age, to the nearest thousand.
func Valuation(p model.Player) int64 {
	ageFactor := 1.0
	switch {
	case p.Age < 21:
		ageFactor = 1.2
	case p.Age > 30:
		ageFactor = 0.5
	case p.Age > 27:
		ageFactor = 0.8
	}
	headroom := 1 + float64(max(0, p.Potential-p.Rating))/100
	v := float64(p.Rating*p.Rating) * 150 * ageFactor * headroom
	return int64(math.Round(v/1000)) * 1000
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
