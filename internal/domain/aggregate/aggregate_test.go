package aggregate_test

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"
	"unicode/utf8"

	"github.com/okian/reviewlens/internal/domain/aggregate"
	"github.com/okian/reviewlens/internal/domain/review"
	"github.com/okian/reviewlens/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func withRatings(ratings ...float64) []review.Review {
	out := make([]review.Review, len(ratings))
	for i, r := range ratings {
		out[i] = review.Review{Author: fmt.Sprintf("a%d", i), Date: "2022-01-01", Location: "US", Rating: r}
	}
	return out
}

func withLocations(locs ...string) []review.Review {
	out := make([]review.Review, len(locs))
	for i, l := range locs {
		out[i] = review.Review{Location: l, Rating: 5}
	}
	return out
}

func TestSummarize(t *testing.T) {
	Convey("Given ratings 1, 5 and 5", t, func() {
		s := aggregate.Summarize(withRatings(1, 5, 5))

		Convey("Then the summary matches the mean and positive share", func() {
			So(s.TotalCount, ShouldEqual, 3)
			So(s.AverageRating, ShouldAlmostEqual, 11.0/3, 1e-9)
			So(s.PositivePercentage, ShouldAlmostEqual, 200.0/3, 1e-9)
			So(s.RoundedStars, ShouldEqual, 4)
		})
	})

	Convey("Given an empty collection", t, func() {
		s := aggregate.Summarize(nil)

		Convey("Then every value is zero", func() {
			So(s, ShouldResemble, types.Summary{})
			So(math.IsNaN(s.AverageRating), ShouldBeFalse)
		})
	})

	Convey("Given a fractional rating", t, func() {
		s := aggregate.Summarize(withRatings(4.5, 5))

		Convey("Then its value is used as-is", func() {
			So(s.AverageRating, ShouldEqual, 4.75)
			So(s.PositivePercentage, ShouldEqual, 100)
			So(s.RoundedStars, ShouldEqual, 5)
		})
	})

	Convey("Given out-of-range ratings", t, func() {
		s := aggregate.Summarize(withRatings(0, 99))

		Convey("Then they still count towards the average and stars are capped", func() {
			So(s.AverageRating, ShouldEqual, 49.5)
			So(s.PositivePercentage, ShouldEqual, 50)
			So(s.RoundedStars, ShouldEqual, 5)
		})
	})
}

func TestRatingHistogram(t *testing.T) {
	Convey("Given ratings 1, 5 and 5", t, func() {
		h := aggregate.RatingHistogram(withRatings(1, 5, 5))

		Convey("Then five ascending buckets are returned", func() {
			So(len(h), ShouldEqual, 5)
			counts := []int{}
			for i, b := range h {
				So(b.Rating, ShouldEqual, i+1)
				So(b.Label, ShouldEqual, fmt.Sprintf("%d Star", i+1))
				counts = append(counts, b.Count)
			}
			So(counts, ShouldResemble, []int{1, 0, 0, 0, 2})
			So(h[0].Percentage, ShouldAlmostEqual, 100.0/3, 1e-9)
			So(h[4].Percentage, ShouldAlmostEqual, 200.0/3, 1e-9)
		})
	})

	Convey("Given out-of-range ratings", t, func() {
		h := aggregate.RatingHistogram(withRatings(0, 6, -1, 3))

		Convey("Then they are excluded from every bucket", func() {
			total := 0
			for _, b := range h {
				total += b.Count
			}
			So(total, ShouldEqual, 1)
			So(h[2].Count, ShouldEqual, 1)
			So(h[2].Percentage, ShouldEqual, 25)
		})
	})

	Convey("Given fractional ratings", t, func() {
		h := aggregate.RatingHistogram(withRatings(4.5, 5, 2.5))

		Convey("Then only whole stars are bucketed", func() {
			So(h[1].Count, ShouldEqual, 0)
			So(h[3].Count, ShouldEqual, 0)
			So(h[4].Count, ShouldEqual, 1)
			So(h[4].Percentage, ShouldAlmostEqual, 100.0/3, 1e-9)
		})
	})

	Convey("Given an empty collection", t, func() {
		h := aggregate.RatingHistogram(nil)

		Convey("Then buckets are zero with zero percentages", func() {
			So(len(h), ShouldEqual, 5)
			for _, b := range h {
				So(b.Count, ShouldEqual, 0)
				So(b.Percentage, ShouldEqual, 0)
			}
		})
	})
}

func TestRankLocations(t *testing.T) {
	Convey("Given two US reviews and one GB review", t, func() {
		r := aggregate.RankLocations(withLocations("US", "GB", "US"), 5)

		Convey("Then US leads and no Others entry exists", func() {
			So(r.Total, ShouldEqual, 3)
			So(len(r.Entries), ShouldEqual, 2)
			So(r.Entries[0].Name, ShouldEqual, "US")
			So(r.Entries[0].Count, ShouldEqual, 2)
			So(r.Entries[0].Percent, ShouldEqual, 66.7)
			So(r.Entries[0].Label, ShouldEqual, "66.7%")
			So(r.Entries[1].Name, ShouldEqual, "GB")
			So(r.Entries[1].Percent, ShouldEqual, 33.3)
		})
	})

	Convey("Given seven distinct locations", t, func() {
		r := aggregate.RankLocations(withLocations("A", "B", "A", "C", "D", "E", "F", "G", "B", "A"), 5)

		Convey("Then the tail is folded into Others", func() {
			So(len(r.Entries), ShouldEqual, 6)
			names := []string{}
			for _, e := range r.Entries {
				names = append(names, e.Name)
			}
			So(names, ShouldResemble, []string{"A", "B", "C", "D", "E", types.OthersLabel})
			So(r.Entries[5].Count, ShouldEqual, 2)
			So(r.Entries[5].Others, ShouldBeTrue)
			So(r.Entries[5].Percent, ShouldEqual, 20)
		})
	})

	Convey("Given exactly five distinct locations", t, func() {
		r := aggregate.RankLocations(withLocations("A", "B", "C", "D", "E"), 5)

		Convey("Then no Others entry is added", func() {
			So(len(r.Entries), ShouldEqual, 5)
			for _, e := range r.Entries {
				So(e.Others, ShouldBeFalse)
			}
		})
	})

	Convey("Given tied counts", t, func() {
		r := aggregate.RankLocations(withLocations("NL", "DE", "FR", "DE", "NL"), 5)

		Convey("Then first-seen order breaks the tie", func() {
			So(r.Entries[0].Name, ShouldEqual, "NL")
			So(r.Entries[1].Name, ShouldEqual, "DE")
			So(r.Entries[2].Name, ShouldEqual, "FR")
		})
	})

	Convey("Given locations differing only by case", t, func() {
		r := aggregate.RankLocations(withLocations("us", "US"), 5)

		Convey("Then they are separate groups", func() {
			So(len(r.Entries), ShouldEqual, 2)
		})
	})

	Convey("Given an empty collection", t, func() {
		r := aggregate.RankLocations(nil, 0)

		Convey("Then the ranking is empty but well-formed", func() {
			So(r.Total, ShouldEqual, 0)
			So(r.Entries, ShouldNotBeNil)
			So(len(r.Entries), ShouldEqual, 0)
		})
	})
}

func TestTrend(t *testing.T) {
	Convey("Given reviews across months with mixed date forms", t, func() {
		reviews := []review.Review{
			{Date: "2022-11-29", Rating: 1},
			{Date: "2021-12-03", Rating: 5},
			{Date: "2022-11-01T23:30:00-05:00", Rating: 4},
			{Date: "2022-11-30 08:15:00", Rating: 2},
			{Date: "not a date", Rating: 5},
			{Date: "", Rating: 5},
		}
		tr := aggregate.Trend(reviews)

		Convey("Then same-month dates share a bucket and bad dates are skipped", func() {
			So(tr, ShouldResemble, []types.TrendPoint{
				{Month: "2021-12", AverageRating: 5, Count: 1},
				{Month: "2022-11", AverageRating: 2.3, Count: 3},
			})
		})
	})

	Convey("Given a bucket whose mean needs rounding", t, func() {
		tr := aggregate.Trend([]review.Review{
			{Date: "2020-02-01", Rating: 1},
			{Date: "2020-02-02", Rating: 2},
			{Date: "2020-02-03", Rating: 2},
		})

		Convey("Then it is rounded to one decimal", func() {
			So(tr[0].AverageRating, ShouldEqual, 1.7)
		})
	})

	Convey("Given a fractional rating", t, func() {
		tr := aggregate.Trend([]review.Review{
			{Date: "2022-11-05", Rating: 4.5},
			{Date: "2022-11-06", Rating: 5},
		})

		Convey("Then it contributes its own value to the month", func() {
			So(tr, ShouldResemble, []types.TrendPoint{{Month: "2022-11", AverageRating: 4.8, Count: 2}})
		})
	})

	Convey("Given minute and month precision dates", t, func() {
		tr := aggregate.Trend([]review.Review{
			{Date: "2022-11-05T10:00Z", Rating: 4},
			{Date: "2022-11-06T10:00:00+0000", Rating: 2},
			{Date: "2021-01", Rating: 5},
		})

		Convey("Then they are bucketed like full dates", func() {
			So(tr, ShouldResemble, []types.TrendPoint{
				{Month: "2021-01", AverageRating: 5, Count: 1},
				{Month: "2022-11", AverageRating: 3, Count: 2},
			})
		})
	})

	Convey("Given only unparseable dates", t, func() {
		tr := aggregate.Trend([]review.Review{{Date: "yesterday", Rating: 3}})

		Convey("Then the trend is empty", func() {
			So(tr, ShouldNotBeNil)
			So(len(tr), ShouldEqual, 0)
		})
	})
}

func TestMonthKey(t *testing.T) {
	Convey("Given dates in several layouts", t, func() {
		for in, want := range map[string]string{
			"2022-11-29":                    "2022-11",
			"2022-11-29T10:00:00Z":          "2022-11",
			"2022-11-29T10:00:00.123+02:00": "2022-11",
			"2022-11-29T10:00:00":           "2022-11",
			"2022-11-29T10:00":              "2022-11",
			" 2022-01-05 ":                  "2022-01",
			"2022-11-05T10:00Z":             "2022-11",
			"2022-11-05T10:00+01:00":        "2022-11",
			"2022-11-05T10:00:00+0000":      "2022-11",
			"2022-11-30T23:30:00-0500":      "2022-11",
			"2022-11":                       "2022-11",
		} {
			got, ok := aggregate.MonthKey(in)
			So(ok, ShouldBeTrue)
			So(got, ShouldEqual, want)
		}

		for _, in := range []string{"", "29/11/2022", "2022-13-01", "Nov 2022", "2022-13", "2022"} {
			_, ok := aggregate.MonthKey(in)
			So(ok, ShouldBeFalse)
		}
	})
}

func TestWordFrequency(t *testing.T) {
	Convey("Given reviews with repeated words", t, func() {
		reviews := []review.Review{
			{Heading: "Great service", Body: "Great product, great service! Fast delivery."},
			{Heading: "Slow delivery", Body: "The delivery was slow: service okay."},
		}

		Convey("When no limit applies", func() {
			w := aggregate.WordFrequency(reviews, 30)

			Convey("Then only repeated long non-stop tokens are ranked", func() {
				So(w, ShouldResemble, []types.WordCount{
					{Token: "great", Count: 3, Weight: 1},
					{Token: "service", Count: 3, Weight: 1},
					{Token: "delivery", Count: 3, Weight: 1},
					{Token: "slow", Count: 2, Weight: 2.0 / 3},
				})
			})
		})

		Convey("When the limit is two", func() {
			w := aggregate.WordFrequency(reviews, 2)

			Convey("Then the first-seen ties win", func() {
				So(len(w), ShouldEqual, 2)
				So(w[0].Token, ShouldEqual, "great")
				So(w[1].Token, ShouldEqual, "service")
			})
		})
	})

	Convey("Given stop words and punctuation outside the stripped set", t, func() {
		reviews := []review.Review{
			{Heading: "With with", Body: "there there which which quality? quality? quality (fine) fine"},
		}
		w := aggregate.WordFrequency(reviews, 30)

		Convey("Then stop words drop and other punctuation survives", func() {
			So(w, ShouldResemble, []types.WordCount{
				{Token: "quality?", Count: 2, Weight: 1},
				{Token: "fine", Count: 2, Weight: 1},
			})
		})
	})

	Convey("Given accented tokens", t, func() {
		w := aggregate.WordFrequency([]review.Review{{Body: "ñaña ñaña été été"}}, 30)

		Convey("Then length is measured in characters", func() {
			So(len(w), ShouldEqual, 1)
			So(w[0].Token, ShouldEqual, "ñaña")
		})
	})

	Convey("Given an empty collection", t, func() {
		w := aggregate.WordFrequency(nil, 0)

		So(w, ShouldNotBeNil)
		So(len(w), ShouldEqual, 0)
	})
}

func TestRecent(t *testing.T) {
	Convey("Given twelve reviews in shuffled order", t, func() {
		reviews := make([]review.Review, 0, 12)
		for _, day := range []int{3, 11, 1, 7, 12, 5, 9, 2, 10, 4, 8, 6} {
			reviews = append(reviews, review.Review{Author: fmt.Sprintf("d%02d", day), Date: fmt.Sprintf("2022-01-%02d", day)})
		}
		authors := func(p types.RecentPage) []string {
			out := []string{}
			for _, r := range p.Items {
				out = append(out, r.Author)
			}
			return out
		}

		Convey("When the first page is requested", func() {
			p := aggregate.RecentPage(reviews, 1, 5)

			Convey("Then the five newest come first", func() {
				So(p.Page, ShouldEqual, 1)
				So(p.TotalPages, ShouldEqual, 3)
				So(p.Total, ShouldEqual, 12)
				So(authors(p), ShouldResemble, []string{"d12", "d11", "d10", "d09", "d08"})
			})
		})

		Convey("When the third page is requested", func() {
			p := aggregate.RecentPage(reviews, 3, 5)

			Convey("Then the two oldest are returned", func() {
				So(authors(p), ShouldResemble, []string{"d02", "d01"})
			})
		})

		Convey("When pages outside the range are requested", func() {
			So(aggregate.RecentPage(reviews, 0, 5).Page, ShouldEqual, 1)
			So(aggregate.RecentPage(reviews, -4, 5).Page, ShouldEqual, 1)
			So(aggregate.RecentPage(reviews, 99, 5).Page, ShouldEqual, 3)
		})

		Convey("When the input is sorted", func() {
			_ = aggregate.SortRecent(reviews)

			Convey("Then the caller's slice is untouched", func() {
				So(reviews[0].Author, ShouldEqual, "d03")
			})
		})
	})

	Convey("Given unparseable and equal dates", t, func() {
		reviews := []review.Review{
			{Author: "bad", Date: "soon"},
			{Author: "first", Date: "2022-05-01"},
			{Author: "second", Date: "2022-05-01"},
			{Author: "late", Date: "2022-05-01T12:00:00Z"},
		}
		sorted := aggregate.SortRecent(reviews)

		Convey("Then bad dates are oldest and ties keep input order", func() {
			So(sorted[0].Author, ShouldEqual, "late")
			So(sorted[1].Author, ShouldEqual, "first")
			So(sorted[2].Author, ShouldEqual, "second")
			So(sorted[3].Author, ShouldEqual, "bad")
		})
	})

	Convey("Given a minute precision date with a zone", t, func() {
		sorted := aggregate.SortRecent([]review.Review{
			{Author: "old", Date: "2021-01-01"},
			{Author: "new", Date: "2022-11-05T10:00Z"},
		})

		Convey("Then it is ordered by its instant", func() {
			So(sorted[0].Author, ShouldEqual, "new")
			So(sorted[1].Author, ShouldEqual, "old")
		})
	})

	Convey("Given an empty collection", t, func() {
		p := aggregate.RecentPage(nil, 1, 5)

		Convey("Then there are zero pages and no items", func() {
			So(p.Page, ShouldEqual, 0)
			So(p.TotalPages, ShouldEqual, 0)
			So(p.Items, ShouldNotBeNil)
			So(len(p.Items), ShouldEqual, 0)
		})
	})
}

func TestBuild(t *testing.T) {
	Convey("Given the seed collection", t, func() {
		v := aggregate.Build(review.Seed(), aggregate.Options{})

		Convey("Then every view is populated", func() {
			So(v.Summary.TotalCount, ShouldEqual, 3)
			So(v.Summary.AverageRating, ShouldAlmostEqual, 7.0/3, 1e-9)
			So(len(v.Ratings), ShouldEqual, 5)
			So(len(v.Locations.Entries), ShouldEqual, 3)
			So(len(v.Trend), ShouldEqual, 3)
			So(v.Trend[0].Month, ShouldEqual, "2018-01")
			So(v.Recent(1).Items[0].Author, ShouldEqual, "Sameena Ijaz")
		})

		Convey("When a dashboard is assembled", func() {
			d := v.Dashboard(4, 1)

			Convey("Then it carries the version and first page", func() {
				So(d.Version, ShouldEqual, 4)
				So(d.Recent.PageSize, ShouldEqual, aggregate.DefaultPageSize)
				So(d.Recent.TotalPages, ShouldEqual, 1)
			})
		})
	})
}

func TestAggregationProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	locations := []string{"US", "GB", "CH", "DE", "FR", "NL", "ES", "IT"}
	words := []string{"great", "slow", "delivery", "the", "and", "bag", "quality", "price", "with", "love"}

	gen := func() []review.Review {
		n := rng.IntN(40)
		out := make([]review.Review, n)
		for i := range out {
			body := ""
			for range rng.IntN(12) {
				body += words[rng.IntN(len(words))] + " "
			}
			date := fmt.Sprintf("20%02d-%02d-%02d", 18+rng.IntN(5), 1+rng.IntN(12), 1+rng.IntN(28))
			if rng.IntN(10) == 0 {
				date = "n/a"
			}
			out[i] = review.Review{
				Body:     body,
				Date:     date,
				Location: locations[rng.IntN(len(locations))],
				Rating:   float64(rng.IntN(15)-2) / 2,
			}
		}
		return out
	}

	Convey("Given random collections", t, func() {
		for range 200 {
			c := gen()

			outOfRange, sum := 0, 0.0
			for _, r := range c {
				sum += r.Rating
				if !r.InRange() {
					outOfRange++
				}
			}

			histTotal := 0
			for _, b := range aggregate.RatingHistogram(c) {
				histTotal += b.Count
			}
			So(histTotal+outOfRange, ShouldEqual, len(c))

			if len(c) > 0 {
				So(aggregate.Summarize(c).AverageRating, ShouldAlmostEqual, sum/float64(len(c)), 1e-9)
			}

			ranking := aggregate.RankLocations(c, 5)
			locTotal := 0
			for _, e := range ranking.Entries {
				locTotal += e.Count
			}
			So(locTotal, ShouldEqual, len(c))
			So(len(ranking.Entries), ShouldBeLessThanOrEqualTo, 6)

			trend := aggregate.Trend(c)
			for i := 1; i < len(trend); i++ {
				So(trend[i-1].Month < trend[i].Month, ShouldBeTrue)
			}

			for _, w := range aggregate.WordFrequency(c, 30) {
				So(utf8.RuneCountInString(w.Token), ShouldBeGreaterThan, 3)
				So(aggregate.IsStopWord(w.Token), ShouldBeFalse)
				So(w.Count, ShouldBeGreaterThanOrEqualTo, 2)
			}
		}
	})
}
