// Package season maps a simulated day to its season.
package season

// DaysPerSeason is the length of one season in simulated days.
const DaysPerSeason = 7

// Season carries the modifiers applied during a season.
type Season struct {
	Name            string
	StockVolatility float64
	BondYield       float64
}

// Table is the season cycle, in order.
var Table = []Season{
	{Name: "Spring", StockVolatility: 1.2, BondYield: 0.95},
	{Name: "Summer", StockVolatility: 1.5, BondYield: 1.0},
	{Name: "Autumn", StockVolatility: 0.8, BondYield: 1.1},
	{Name: "Winter", StockVolatility: 1.0, BondYield: 1.05},
}

// For returns the season of the given day.
func For(day int) Season {
	n := len(Table)
	idx := (day / DaysPerSeason) % n
	if day < 0 {
		// floor division for negative days
		idx = (((day+1)/DaysPerSeason-1)%n + n) % n
	}
	return Table[idx]
}
