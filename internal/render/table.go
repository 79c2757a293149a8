package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/IshaanNene/eu4achievements/internal/types"
)

// Table writes records as a single table. Unlike Record, records without a
// tier are kept and shown with "-".
func (r *Renderer) Table(w io.Writer, records []*types.Record) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)

	header := table.Row{"#", "Tier", "Title", "Description", "Unlocked"}
	if r.withLink {
		header = append(header, "Link")
	}
	t.AppendHeader(header)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMax: 60},
	})

	unlocked := 0
	for i, rec := range records {
		tier := "-"
		if tt, ok := rec.Tier(); ok {
			tier = string(tt)
		}
		mark := ""
		if rec.Unlocked {
			mark = "yes"
			unlocked++
		}
		row := table.Row{i + 1, tier, rec.Title, rec.Description, mark}
		if r.withLink {
			row = append(row, r.Link(rec.Title))
		}
		t.AppendRow(row)
	}

	footer := table.Row{"", "", fmt.Sprintf("Total: %d", len(records)), "", fmt.Sprintf("%d/%d", unlocked, len(records))}
	if r.withLink {
		footer = append(footer, "")
	}
	t.AppendFooter(footer)

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// TierSummary writes the number of records and unlocked records per tier.
func TierSummary(w io.Writer, records []*types.Record) error {
	total := make(map[types.Tier]int)
	unlocked := make(map[types.Tier]int)
	untiered, untieredUnlocked := 0, 0

	for _, rec := range records {
		tier, ok := rec.Tier()
		if !ok {
			untiered++
			if rec.Unlocked {
				untieredUnlocked++
			}
			continue
		}
		total[tier]++
		if rec.Unlocked {
			unlocked[tier]++
		}
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Tier", "Name", "Unlocked", "Total"})
	for _, tier := range types.AllTiers {
		t.AppendRow(table.Row{string(tier), tier.Label(), unlocked[tier], total[tier]})
	}
	if untiered > 0 {
		t.AppendRow(table.Row{"-", "Not on the wiki", untieredUnlocked, untiered})
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// DifficultyTable writes the wiki difficulty rows as a table.
func (r *Renderer) DifficultyTable(w io.Writer, difficulties []types.Difficulty) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)

	header := table.Row{"#", "Tier", "Title"}
	if r.withLink {
		header = append(header, "Link")
	}
	t.AppendHeader(header)

	for i, d := range difficulties {
		row := table.Row{i + 1, string(d.Tier), d.Title}
		if r.withLink {
			row = append(row, r.Link(d.Title))
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("Total: %d", len(difficulties))})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
