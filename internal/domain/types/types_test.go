package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/reviewlens/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestReadModelJSON(t *testing.T) {
	Convey("Given read models", t, func() {
		Convey("When a summary is encoded", func() {
			b, err := json.Marshal(types.Summary{TotalCount: 3, AverageRating: 2.5, PositivePercentage: 50, RoundedStars: 3})

			Convey("Then camelCase keys are used", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, `{"totalCount":3,"averageRating":2.5,"positivePercentage":50,"roundedStars":3}`)
			})
		})

		Convey("When a regular location entry is encoded", func() {
			b, err := json.Marshal(types.LocationEntry{Name: "US", Count: 2, Percent: 66.7, Label: "66.7%"})

			Convey("Then the others flag is omitted", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldNotContainSubstring, "others")
			})
		})

		Convey("When an Others entry is encoded", func() {
			b, err := json.Marshal(types.LocationEntry{Name: types.OthersLabel, Count: 1, Others: true})

			Convey("Then it is flagged", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldContainSubstring, `"others":true`)
			})
		})
	})
}
