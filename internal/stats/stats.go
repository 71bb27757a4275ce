// Package stats aggregates hand-history JSONL into per-player and per-run
// summaries. It only reads records; it never touches the engine.
package stats

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"holdemsim/holdem"
	"holdemsim/record"
)

// PlayerStats accumulates over every hand a player appears in.
type PlayerStats struct {
	ID        string
	Hands     int
	Net       int64
	Wins      int // hands with positive net
	Showdowns int // hands the player reached showdown
	VPIP      int // hands with a voluntary preflop chip commitment
	Raises    int // bet/raise/all-in actions taken
}

// Report is the aggregate over one record file.
type Report struct {
	Hands     int
	FoldEnded int
	Showdowns int
	TotalPot  int64 // sum of winning showdown payouts
	Players   map[string]*PlayerStats
	MinSeed   uint64
	MaxSeed   uint64
}

// FoldRate is the share of hands that ended without showdown.
func (r *Report) FoldRate() float64 {
	if r.Hands == 0 {
		return 0
	}
	return float64(r.FoldEnded) / float64(r.Hands)
}

func (r *Report) player(id string) *PlayerStats {
	p, ok := r.Players[id]
	if !ok {
		p = &PlayerStats{ID: id}
		r.Players[id] = p
	}
	return p
}

func (r *Report) observe(rec *record.HandRecord) {
	r.Hands++
	if r.Hands == 1 || rec.Seed < r.MinSeed {
		r.MinSeed = rec.Seed
	}
	if rec.Seed > r.MaxSeed {
		r.MaxSeed = rec.Seed
	}

	switch rec.EndReason {
	case holdem.EndReasonFold:
		r.FoldEnded++
	case holdem.EndReasonShowdown:
		r.Showdowns++
	}

	for _, seat := range rec.Players {
		p := r.player(seat.ID)
		p.Hands++
		net := rec.NetResult[seat.ID]
		p.Net += net
		if net > 0 {
			p.Wins++
		}
	}
	for _, sd := range rec.Showdown {
		p := r.player(sd.Player)
		p.Showdowns++
		if sd.Won {
			r.TotalPot += sd.Amount
		}
	}

	vpip := make(map[string]bool)
	for _, a := range rec.Actions {
		switch a.Action {
		case "bet", "raise", "all_in":
			r.player(a.Actor).Raises++
		}
		if a.Street == "preflop" {
			switch a.Action {
			case "call", "bet", "raise", "all_in":
				vpip[a.Actor] = true
			}
		}
	}
	for id := range vpip {
		r.player(id).VPIP++
	}
}

// Aggregate scans one JSONL file into a report.
func Aggregate(path string) (*Report, error) {
	r := &Report{Players: make(map[string]*PlayerStats)}
	err := record.ForEach(path, func(rec *record.HandRecord) error {
		r.observe(rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// WriteText renders the report as an aligned table.
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "hands\t%d\n", r.Hands)
	fmt.Fprintf(tw, "showdowns\t%d\n", r.Showdowns)
	fmt.Fprintf(tw, "fold-ended\t%d (%.1f%%)\n", r.FoldEnded, r.FoldRate()*100)
	fmt.Fprintf(tw, "showdown chips won\t%d\n", r.TotalPot)
	fmt.Fprintf(tw, "seed range\t%d..%d\n", r.MinSeed, r.MaxSeed)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "player\thands\tnet\twins\tshowdowns\tvpip\traises")

	ids := make([]string, 0, len(r.Players))
	for id := range r.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := r.Players[id]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			p.ID, p.Hands, p.Net, p.Wins, p.Showdowns, p.VPIP, p.Raises)
	}
	return tw.Flush()
}
