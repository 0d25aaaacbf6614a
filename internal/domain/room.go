package domain

import (
	"strings"

	"github.com/samber/lo"
)

type Room struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MaxAdults   int    `json:"maxAdults"`
	MaxChildren int    `json:"maxChildren"`
	Rates       []int  `json:"rates"`
}

type RatePlan struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var Rooms = []Room{
	{ID: "101", Name: "Room 101 (King)", MaxAdults: 2, MaxChildren: 1, Rates: []int{119, 129, 139}},
	{ID: "204", Name: "Room 204 (Double Queen)", MaxAdults: 4, MaxChildren: 3, Rates: []int{149, 159, 169}},
	{ID: "310", Name: "Room 310 (Suite)", MaxAdults: 4, MaxChildren: 2, Rates: []int{219, 239, 259}},
}

var RatePlans = []RatePlan{
	{ID: "standard", Label: "Standard"},
	{ID: "flex", Label: "Flexible"},
	{ID: "member", Label: "Member"},
}

func FindRoom(id string) (Room, bool) {
	return lo.Find(Rooms, func(r Room) bool { return r.ID == id })
}

// RoomLabel falls back to the raw id for rooms outside the catalog.
func RoomLabel(id string) string {
	if r, ok := FindRoom(id); ok {
		return r.Name
	}
	return id
}

func trimmed(s string) string { return strings.TrimSpace(s) }
