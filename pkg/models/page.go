package models

import "time"

// Page is a client-facing URL being monitored for coherence with an official
// source. Pages are created by hand in the record store; the engine only
// mutates RawText, LastCheckedAt, and CoherenceStatus on each scan.
type Page struct {
	ID              string
	ClientName      string
	URL             string
	CentreIDs       []string
	LastCheckedAt   string // date-only, as stored
	RawText         string
	CoherenceStatus string
	CreatedAt       time.Time
}

// PrimaryCentreID returns the authoritative linked centre. A page may link
// several centres but only the first carries the official URL and facts.
func (p *Page) PrimaryCentreID() string {
	if len(p.CentreIDs) == 0 {
		return ""
	}
	return p.CentreIDs[0]
}
