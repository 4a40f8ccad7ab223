package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/alfredjeanlab/potties/internal/model"
	"github.com/alfredjeanlab/potties/internal/ui"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printPotty(w io.Writer, p *model.Potty) {
	fmt.Fprintf(w, "ID:       %d\n", p.ID)
	fmt.Fprintf(w, "Status:   %s\n", ui.RenderStatus(p.Status.String()))
	fmt.Fprintf(w, "Location: %s\n", p.Location)
}

func printPottyList(w io.Writer, potties []*model.Potty) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tLOCATION")
	for _, p := range potties {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, ui.RenderStatus(p.Status.String()), p.Location)
	}
	tw.Flush()

	noun := "potties"
	if len(potties) == 1 {
		noun = "potty"
	}
	fmt.Fprintln(w, ui.RenderMuted(fmt.Sprintf("\n%d %s", len(potties), noun)))
}

func printSubscriberList(w io.Writer, subs []*model.Subscriber) {
	if len(subs) == 0 {
		fmt.Fprintln(w, "no subscribers")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tURL")
	for _, s := range subs {
		fmt.Fprintf(tw, "%d\t%s\n", s.ID, s.URL)
	}
	tw.Flush()
}

func printStatusChange(w io.Writer, c model.StatusChange) {
	fmt.Fprintf(w, "potty %d (%s): %s -> %s\n",
		c.ID, c.Location, ui.RenderStatus(c.OldStatus.String()), ui.RenderStatus(c.CurrentStatus.String()))
}
