// Package prestation packs the structured prestation sub-fields (event,
// lots, free text) into the single prestation_description text column and
// parses them back out. The load path is the exact inverse of the save
// path: every sub-field round-trips, so a draft can be re-edited.
//
// Format, one segment per lot, segments joined by " || ":
//
//	DateEvt:2026-06-01 | Tickets:4 - Roland-Garros - Court Suzanne-Lenglen - Catégorie 1
//
// Free-text precisions, when present, are the final segment. Positions
// inside a lot segment are fixed; empty sub-fields keep their slot so
// parsing stays positional. Plain text concatenation is a known fragility:
// sub-field values must not contain the delimiters themselves.
package prestation

import (
	"strings"
)

const (
	segmentSep = " || "
	partSep    = " - "
	datePrefix = "DateEvt:"
	ticketsSep = " | Tickets:"
)

// Lot is one ticketed entry of a prestation.
type Lot struct {
	EventDate string `json:"eventDate"`
	Court     string `json:"court"`
	Categorie string `json:"categorie"`
	Tickets   string `json:"tickets"`
}

// Details is everything the description column encodes.
type Details struct {
	EventName  string `json:"eventName"`
	Lots       []Lot  `json:"lots"`
	Precisions string `json:"precisions"`
}

// Pack serializes d into the description column format.
func Pack(d Details) string {
	segments := make([]string, 0, len(d.Lots)+1)
	for _, lot := range d.Lots {
		parts := []string{
			datePrefix + lot.EventDate + ticketsSep + lot.Tickets,
			d.EventName,
			lot.Court,
			lot.Categorie,
		}
		segments = append(segments, strings.Join(parts, partSep))
	}
	if d.Precisions != "" {
		segments = append(segments, d.Precisions)
	}
	return strings.Join(segments, segmentSep)
}

// Parse recovers the sub-fields from a packed description. Unrecognized
// segments (no DateEvt prefix) are treated as free-text precisions.
func Parse(s string) Details {
	var d Details
	if s == "" {
		return d
	}
	var precisions []string
	for _, segment := range strings.Split(s, segmentSep) {
		if !strings.HasPrefix(segment, datePrefix) {
			precisions = append(precisions, segment)
			continue
		}
		parts := strings.Split(segment, partSep)
		var lot Lot
		head := strings.TrimPrefix(parts[0], datePrefix)
		if i := strings.Index(head, ticketsSep); i >= 0 {
			lot.EventDate = head[:i]
			lot.Tickets = head[i+len(ticketsSep):]
		} else {
			lot.EventDate = head
		}
		if len(parts) > 1 && d.EventName == "" {
			d.EventName = parts[1]
		}
		if len(parts) > 2 {
			lot.Court = parts[2]
		}
		if len(parts) > 3 {
			lot.Categorie = parts[3]
		}
		d.Lots = append(d.Lots, lot)
	}
	d.Precisions = strings.Join(precisions, segmentSep)
	return d
}
