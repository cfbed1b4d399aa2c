package enums

import "fmt"

// Continent buckets every ticket into one of five fixed regions.
type Continent string

const (
	ContinentAfrica   Continent = "Africa"
	ContinentAmericas Continent = "Americas"
	ContinentAsia     Continent = "Asia"
	ContinentEurope   Continent = "Europe"
	ContinentOceania  Continent = "Oceania"
)

var validContinents = []Continent{
	ContinentAfrica,
	ContinentAmericas,
	ContinentAsia,
	ContinentEurope,
	ContinentOceania,
}

// Continents returns every known continent value.
func Continents() []Continent {
	out := make([]Continent, len(validContinents))
	copy(out, validContinents)
	return out
}

// String returns the literal string for the continent.
func (c Continent) String() string {
	return string(c)
}

// IsValid reports whether the continent is known.
func (c Continent) IsValid() bool {
	for _, candidate := range validContinents {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseContinent converts raw input into a Continent.
func ParseContinent(value string) (Continent, error) {
	for _, candidate := range validContinents {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid continent %q", value)
}
