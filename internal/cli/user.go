package cli

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	vm "github.com/rathinsam/Vehicle-Parking-app/internal/viewmodel"
)

func newUserCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Reserve spots and review your parking",
	}
	cmd.AddCommand(
		newUserDashboardCommand(e),
		newUserLotsCommand(e),
		newReserveCommand(e),
		newReleaseCommand(e),
		newHistoryCommand(e),
		newExportCommand(e),
	)
	return cmd
}

func newUserDashboardCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show your active spot, totals and spending",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := e.open(cmd.Context(), e.app(), vm.PageUserDashboard)
			if err != nil {
				return err
			}
			v := snap.View.(vm.UserDashboardView)
			if a := v.Active; a != nil {
				fmt.Fprintf(e.out, "Parked at %s, spot %d, since %s\n", a.LotName, a.SpotID, parkedFor(a.ParkedSince, time.Now()))
			} else {
				fmt.Fprintln(e.out, "No active reservation")
			}
			fmt.Fprintf(e.out, "Reservations: %d  Spent: %s\n\n", v.TotalReservations, money(v.TotalAmountSpent))

			t := newTable(e.out, "Lot", "Spot", "Start", "End", "Cost")
			for _, r := range v.RecentHistory {
				cost := "-"
				if r.Cost.Valid {
					cost = money(r.Cost.Float64)
				}
				t.Append([]string{r.Lot, itoa(r.SpotID), since(r.Start), since(r.End.ValueOrZero()), cost})
			}
			t.Render()

			fmt.Fprintln(e.out)
			writeSeries(e.out, "Lot", v.PerLot)
			fmt.Fprintln(e.out)
			writeSeries(e.out, "Month", v.Spending)
			return nil
		},
	}
}

func newUserLotsCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "lots",
		Short: "List lots you can reserve in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := e.open(cmd.Context(), e.app(), vm.PageReserve)
			if err != nil {
				return err
			}
			v := snap.View.(vm.ReserveView)
			writeLots(e.out, v.Lots, false)
			if !v.CanReserve && v.Active != nil {
				fmt.Fprintf(e.out, "\nYou hold spot %d at %s\n", v.Active.SpotID, v.Active.LotName)
			}
			return nil
		},
	}
}

func (e *env) reserveAction(cmd *cobra.Command, fn func(*vm.Reserve) error) error {
	snap, err := e.act(cmd.Context(), e.app(), vm.PageReserve, func(page any) error {
		return fn(page.(*vm.Reserve))
	})
	v, ok := snap.View.(vm.ReserveView)
	if err != nil {
		if ok && v.Message != "" {
			return fmt.Errorf("%s", v.Message)
		}
		return err
	}
	// Release also alerts its message, which act already printed.
	if ok && v.Message != "" && !slices.Contains(snap.Alerts, v.Message) {
		fmt.Fprintln(e.out, v.Message)
	}
	return nil
}

func newReserveCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "reserve LOT_ID",
		Short: "Reserve the first free spot in a lot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := lotIDArg(args)
			if err != nil {
				return err
			}
			return e.reserveAction(cmd, func(page *vm.Reserve) error {
				return page.Reserve(cmd.Context(), id)
			})
		},
	}
}

func newReleaseCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "release",
		Short: "Release your spot and pay for the time parked",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.reserveAction(cmd, func(page *vm.Reserve) error {
				return page.Release(cmd.Context())
			})
		},
	}
}

func newHistoryCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List all your reservations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := e.open(cmd.Context(), e.app(), vm.PageUserHistory)
			if err != nil {
				return err
			}
			writeHistory(e.out, snap.View.(vm.UserHistoryView).History)
			return nil
		},
	}
}

func newExportCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Ask the server to email your history as CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := e.act(cmd.Context(), e.app(), vm.PageUserHistory, func(page any) error {
				return page.(*vm.UserHistory).Export(cmd.Context())
			})
			return err
		},
	}
}
