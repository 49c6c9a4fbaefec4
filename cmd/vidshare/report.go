package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vidshare/vidshare/internal/core/ports"
	"github.com/vidshare/vidshare/internal/core/service"
)

const barWidth = 30

func newReportCommand(ctx *commandContext) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print reports from the store",
	}

	var limit int
	playsCmd := &cobra.Command{
		Use:   "plays",
		Short: "Rank videos by play count",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, ctx, func(be *backend) error {
				report, err := service.NewDashboardService(be.videos, be.views).PlayReport(cmd.Context())
				if err != nil {
					return err
				}
				if limit > 0 && len(report) > limit {
					report = report[:limit]
				}
				if len(report) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No plays recorded")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderPlayReport(report))
				return nil
			})
		},
	}
	playsCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most n videos (0 for all)")

	reportCmd.AddCommand(playsCmd)
	return reportCmd
}

func renderPlayReport(report []ports.PlayCount) string {
	var top int64
	for _, r := range report {
		if r.Plays > top {
			top = r.Plays
		}
	}

	rows := make([][]string, 0, len(report))
	for i, r := range report {
		title := r.Title
		if title == "" {
			title = "(untitled)"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			title,
			strconv.FormatInt(r.Plays, 10),
			bar(r.Plays, top, barWidth),
			r.VideoID,
		})
	}
	return renderTable(
		[]string{"#", "Title", "Plays", "", "Video ID"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft},
	)
}

// bar scales value against top; any non-zero value gets at least one cell.
func bar(value, top int64, width int) string {
	if value <= 0 || top <= 0 || width <= 0 {
		return ""
	}
	n := int(value * int64(width) / top)
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}
