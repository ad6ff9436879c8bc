// Package nutrition holds the arithmetic behind meal snapshots and summaries.
package nutrition

import (
	"math"
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Nutrients is the calorie/PFC quadruple tracked for foods, meal items and totals.
type Nutrients struct {
	Calories     float64 `gorm:"not null;default:0" json:"calories"`
	Protein      float64 `gorm:"not null;default:0" json:"protein"`
	Fat          float64 `gorm:"not null;default:0" json:"fat"`
	Carbohydrate float64 `gorm:"not null;default:0" json:"carbohydrate"`
}

// Round2 rounds half-up at the second decimal digit.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Add returns the element-wise sum without rounding.
func (n Nutrients) Add(o Nutrients) Nutrients {
	return Nutrients{
		Calories:     n.Calories + o.Calories,
		Protein:      n.Protein + o.Protein,
		Fat:          n.Fat + o.Fat,
		Carbohydrate: n.Carbohydrate + o.Carbohydrate,
	}
}

// Rounded rounds every element to two decimals.
func (n Nutrients) Rounded() Nutrients {
	return Nutrients{
		Calories:     Round2(n.Calories),
		Protein:      Round2(n.Protein),
		Fat:          Round2(n.Fat),
		Carbohydrate: Round2(n.Carbohydrate),
	}
}

// Scale multiplies per-serving values by quantity, rounding each nutrient
// independently. The result is what a meal item stores as its snapshot.
func Scale(perServing Nutrients, quantity float64) Nutrients {
	return Nutrients{
		Calories:     Round2(perServing.Calories * quantity),
		Protein:      Round2(perServing.Protein * quantity),
		Fat:          Round2(perServing.Fat * quantity),
		Carbohydrate: Round2(perServing.Carbohydrate * quantity),
	}
}

// Finite reports whether every element is a finite number.
func (n Nutrients) Finite() bool {
	for _, v := range []float64{n.Calories, n.Protein, n.Fat, n.Carbohydrate} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// Sum adds the quadruples and rounds once over the sum.
func Sum(values ...Nutrients) Nutrients {
	var total Nutrients
	for _, v := range values {
		total = total.Add(v)
	}
	return total.Rounded()
}

// AchievementRate is actual/target as a percentage with one decimal place.
// Non-positive targets yield 0.
func AchievementRate(actual, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return math.Round(actual/target*1000) / 10
}

// Achievement computes the rate for each nutrient.
func Achievement(actual, target Nutrients) Nutrients {
	return Nutrients{
		Calories:     AchievementRate(actual.Calories, target.Calories),
		Protein:      AchievementRate(actual.Protein, target.Protein),
		Fat:          AchievementRate(actual.Fat, target.Fat),
		Carbohydrate: AchievementRate(actual.Carbohydrate, target.Carbohydrate),
	}
}

// Average divides the sum by n with two-decimal rounding; zero when n <= 0.
func Average(sum Nutrients, n int) Nutrients {
	if n <= 0 {
		return Nutrients{}
	}
	d := float64(n)
	return Nutrients{
		Calories:     Round2(sum.Calories / d),
		Protein:      Round2(sum.Protein / d),
		Fat:          Round2(sum.Fat / d),
		Carbohydrate: Round2(sum.Carbohydrate / d),
	}
}

// ParseDate parses a YYYY-MM-DD string into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate formats t using its UTC calendar components.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// DayRange returns [day, next day) anchored at UTC midnight.
func DayRange(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// MonthRange returns [first day, first day of next month) in UTC.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// DaysInMonth uses proleptic Gregorian rules, so February has 29 days in leap years.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
