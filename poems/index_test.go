package poems

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCityIndex(t *testing.T) {
	list := []Poem{{City: "B"}, {City: "A"}, {City: "B"}, {City: "C"}, {City: "A"}, {City: "B"}}

	index := BuildCityIndex(list)

	assert.Equal(t, []CityCount{{"B", 3}, {"A", 2}, {"C", 1}}, index)
	assert.Equal(t, "B (3)", index[0].Label())
}

func TestBuildCityIndexEmpty(t *testing.T) {
	assert.Empty(t, BuildCityIndex(nil))
}
