package generator

import (
	"fmt"
	"hash/fnv"
	"time"
)

var cuisines = []string{
	"Brazilian home cooking",
	"Mediterranean",
	"Japanese",
	"Mexican",
	"Indian",
	"Middle Eastern",
	"Italian",
	"Thai",
}

// CuisineHint picks a cuisine theme for the user and ISO week so plans vary
// week to week while a retry within the same week stays stable.
func CuisineHint(userID string, at time.Time) string {
	year, week := at.ISOWeek()
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s|%d-%02d", userID, year, week)
	return cuisines[h.Sum32()%uint32(len(cuisines))]
}
