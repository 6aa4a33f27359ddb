package reviewgen

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/reviewlens/internal/domain/review"
)

var (
	firstNames = []string{"Louise", "Ellen", "Sameena", "Marco", "Yuki", "Amara", "Jonas", "Priya", "Diego", "Hana"}
	locations  = []string{"US", "GB", "CH", "FR", "DE", "IT", "ES", "NL", "JP", "AU", "CA", "SE"}

	positivePhrases = []string{
		"quick delivery and lovely products",
		"beautiful quality worth the money",
		"excellent customer service experience",
		"stunning design arrived perfectly packaged",
	}
	negativePhrases = []string{
		"handbag strap broke after months",
		"customer service never answered emails",
		"disappointing quality for such price",
		"delivery arrived late and damaged",
	}
	neutralPhrases = []string{
		"product matches the description",
		"average experience nothing special",
		"sizing runs slightly small",
	}
)

// Generator produces deterministic synthetic reviews for a seed.
type Generator struct {
	rng *rand.Rand
	now time.Time
}

// NewGenerator returns a generator; identical seeds and now values give identical output.
func NewGenerator(seed uint64, now time.Time) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), now: now}
}

// Generate returns n reviews dated within the last months months.
func (g *Generator) Generate(n, months int) []review.Review {
	if months < 1 {
		months = 1
	}
	out := make([]review.Review, n)
	for i := range out {
		out[i] = g.one(months)
	}
	return out
}

func (g *Generator) one(months int) review.Review {
	rating := review.MinRating + g.rng.IntN(review.MaxRating)

	var phrases []string
	switch {
	case rating >= review.PositiveRating:
		phrases = positivePhrases
	case rating <= 2:
		phrases = negativePhrases
	default:
		phrases = neutralPhrases
	}
	first := phrases[g.rng.IntN(len(phrases))]
	second := phrases[g.rng.IntN(len(phrases))]

	maxDays := months * 30
	date := g.now.AddDate(0, 0, -g.rng.IntN(maxDays+1))

	// A short uuid suffix keeps authors distinct across runs.
	author := firstNames[g.rng.IntN(len(firstNames))] + " " + strings.ToUpper(uuid.NewString()[:4])

	return review.Review{
		Author:   author,
		Body:     capitalize(first) + ". " + capitalize(second) + ".",
		Date:     date.Format("2006-01-02"),
		Heading:  capitalize(first),
		Location: locations[g.rng.IntN(len(locations))],
		Rating:   float64(rating),
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
