// Package models defines the domain types for the reading-log reorganizer.
package models

import (
	"fmt"
	"strconv"
	"time"
)

// Record is one book entry of the reading index.
//
// Fields are written by exactly one phase each: the index parser sets
// everything except Code and NewLink, code extraction sets Code, and
// relocation planning sets NewLink. Later phases only read.
type Record struct {
	ReadDate time.Time
	ReadYear string
	Code     string // ISBN-13, ISBN-10 or ASIN; empty if none was found
	Title    string
	OldLink  string // repository-relative link as written in the source index
	NewLink  string // md/<year>/<code>/<filename>, empty until planned
	Author   string
}

// NewRecord builds a Record with ReadYear derived from readDate.
func NewRecord(readDate time.Time, title, oldLink, author string) Record {
	return Record{
		ReadDate: readDate,
		ReadYear: strconv.Itoa(readDate.Year()),
		Title:    title,
		OldLink:  oldLink,
		Author:   author,
	}
}

// String renders the record for debug output.
func (r Record) String() string {
	return fmt.Sprintf("ReadDate=[%s], ReadYear=[%s], Code=[%s], Title=[%s], OldLink=[%s], NewLink=[%s], Author=[%s]",
		r.ReadDate.Format(time.DateOnly), r.ReadYear, r.Code, r.Title, r.OldLink, r.NewLink, r.Author)
}
