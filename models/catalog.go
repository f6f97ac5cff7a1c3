// Package models describes the tables the dashboard reads. Each row type
// carries db tags; the catalog derives table columns from them.
package models

import (
	"reflect"
	"strings"
)

// Table is a named relation and the columns the reports rely on.
type Table struct {
	Name    string
	Columns []string
}

// SelectAll returns a query listing the table's known columns explicitly.
func (t Table) SelectAll() string {
	return "SELECT " + strings.Join(t.Columns, ", ") + " FROM " + t.Name
}

var (
	Teams       = tableOf("teams", Team{})
	Players     = tableOf("players", Player{})
	Seasons     = tableOf("seasons", Season{})
	Venues      = tableOf("venues", Venue{})
	Coaches     = tableOf("coaches", Coach{})
	Conferences = tableOf("conferences", Conference{})
	Divisions   = tableOf("divisions", Division{})

	// RankingsFile lists the columns expected in the rankings file.
	RankingsFile = tableOf("rankings", Ranking{})
)

// Tables returns the database tables in menu order.
func Tables() []Table {
	return []Table{Teams, Players, Seasons, Venues, Coaches, Conferences, Divisions}
}

// Lookup finds a database table by name.
func Lookup(name string) (Table, bool) {
	for _, t := range Tables() {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// TableNames returns the names of Tables.
func TableNames() []string {
	tables := Tables()
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names
}

func tableOf(name string, row any) Table {
	typ := reflect.TypeOf(row)
	cols := make([]string, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		cols = append(cols, tag)
	}
	return Table{Name: name, Columns: cols}
}
