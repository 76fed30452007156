package poems

import "fmt"

// CityCount is one sidebar row.
type CityCount struct {
	City  string
	Count int
}

func (c CityCount) Label() string {
	return fmt.Sprintf("%s (%d)", c.City, c.Count)
}

// BuildCityIndex counts poems per city. Cities keep the order in which they
// first appear in list.
func BuildCityIndex(list []Poem) []CityCount {
	pos := make(map[string]int)
	var index []CityCount
	for _, p := range list {
		i, ok := pos[p.City]
		if !ok {
			pos[p.City] = len(index)
			index = append(index, CityCount{City: p.City, Count: 1})
			continue
		}
		index[i].Count++
	}
	return index
}
