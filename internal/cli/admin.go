package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
	vm "github.com/rathinsam/Vehicle-Parking-app/internal/viewmodel"
)

func newAdminCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin dashboard and lot management",
	}
	cmd.AddCommand(
		newAdminDashboardCommand(e),
		newAdminReservationsCommand(e),
		newAdminLotsCommand(e),
		newAddLotCommand(e),
		newUpdateLotCommand(e),
		newDeleteLotCommand(e),
	)
	return cmd
}

func newAdminDashboardCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show system totals, lot occupancy and recent reservations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := e.app()
			snap, err := e.open(cmd.Context(), app, vm.PageAdminDashboard)
			if err != nil {
				return err
			}
			v := snap.View.(vm.AdminDashboardView)
			writeCards(e.out, v.Cards)
			for _, c := range snap.Charts {
				fmt.Fprintln(e.out)
				writeSeries(e.out, c.ID, c.Series)
			}
			fmt.Fprintln(e.out, "\nRecent reservations")
			writeAdminReservations(e.out, v.Recent)
			return nil
		},
	}
}

func newAdminReservationsCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "reservations",
		Short: "List every reservation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := e.open(cmd.Context(), e.app(), vm.PageAdminDashboard)
			if err != nil {
				return err
			}
			writeAdminReservations(e.out, snap.View.(vm.AdminDashboardView).AllReservations)
			return nil
		},
	}
}

func newAdminLotsCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "lots",
		Short: "List parking lots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := e.open(cmd.Context(), e.app(), vm.PageAdminLots)
			if err != nil {
				return err
			}
			writeLots(e.out, snap.View.(vm.LotManagementView).Lots, true)
			return nil
		},
	}
}

// lotMutation runs fn on the lot management page and prints the outcome.
func (e *env) lotMutation(cmd *cobra.Command, fn func(*vm.LotManagement) error) error {
	app := e.app()
	snap, err := e.act(cmd.Context(), app, vm.PageAdminLots, func(page any) error {
		return fn(page.(*vm.LotManagement))
	})
	if err != nil {
		if v, ok := snap.View.(vm.LotManagementView); ok && v.Message != "" {
			return fmt.Errorf("%s", v.Message)
		}
		return err
	}
	v := snap.View.(vm.LotManagementView)
	fmt.Fprintln(e.out, v.Message)
	writeLots(e.out, v.Lots, true)
	return nil
}

func newAddLotCommand(e *env) *cobra.Command {
	var form domain.LotForm
	cmd := &cobra.Command{
		Use:   "add-lot",
		Short: "Create a parking lot with its spots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.lotMutation(cmd, func(page *vm.LotManagement) error {
				return page.AddLot(cmd.Context(), form)
			})
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "lot name")
	cmd.Flags().StringVar(&form.Address, "address", "", "street address")
	cmd.Flags().StringVar(&form.PinCode, "pin", "", "pin code")
	cmd.Flags().StringVar(&form.Price, "price", "", "price per hour")
	cmd.Flags().StringVar(&form.TotalSpots, "spots", "", "number of spots")
	return cmd
}

func lotIDArg(args []string) (int, error) {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid lot id %q", args[0])
	}
	return id, nil
}

func newUpdateLotCommand(e *env) *cobra.Command {
	var (
		name, address, pin string
		price              float64
	)
	cmd := &cobra.Command{
		Use:   "update-lot LOT_ID",
		Short: "Edit a lot; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := lotIDArg(args)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			return e.lotMutation(cmd, func(page *vm.LotManagement) error {
				var lot *domain.Lot
				for _, l := range page.View().Lots {
					if l.ID == id {
						l := l
						lot = &l
						break
					}
				}
				if lot == nil {
					return fmt.Errorf("lot %d not found", id)
				}
				if flags.Changed("name") {
					lot.Name = name
				}
				if flags.Changed("address") {
					lot.Address = address
				}
				if flags.Changed("pin") {
					lot.PinCode.SetValid(pin)
				}
				if flags.Changed("price") {
					lot.Price = price
				}
				return page.UpdateLot(cmd.Context(), *lot)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&address, "address", "", "new address")
	cmd.Flags().StringVar(&pin, "pin", "", "new pin code")
	cmd.Flags().Float64Var(&price, "price", 0, "new price per hour")
	return cmd
}

func newDeleteLotCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-lot LOT_ID",
		Short: "Delete a lot with no occupied spots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := lotIDArg(args)
			if err != nil {
				return err
			}
			return e.lotMutation(cmd, func(page *vm.LotManagement) error {
				return page.DeleteLot(cmd.Context(), id)
			})
		},
	}
}
