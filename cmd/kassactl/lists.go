package main

import (
	"github.com/hypernova-labs/kassa-sdk/pkg/client"
	"github.com/hypernova-labs/kassa-sdk/pkg/kassa"
	"github.com/spf13/cobra"
)

func newOrdersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Delivery order operations",
	}

	var q client.OrderQuery
	list := &cobra.Command{
		Use:   "list",
		Short: "List delivery orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			result, err := c.GetOrders(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
	list.Flags().IntVar(&q.Start, "start", 0, "offset of the first order")
	list.Flags().IntVar(&q.Limit, "limit", 10, "page size")
	list.Flags().StringVar(&q.CourierID, "courier-id", "", "only orders assigned to this courier")
	list.Flags().StringVar(&q.DateStart, "date-start", "", "only orders starting from this date")

	cmd.AddCommand(list)
	return cmd
}

func newEmployeesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employees",
		Short: "Employee operations",
	}

	var (
		q            client.EmployeeQuery
		employeeType string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			q.Type = kassa.EmployeeType(employeeType)
			result, err := c.GetEmployees(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
	list.Flags().IntVar(&q.Start, "start", 0, "offset of the first employee")
	list.Flags().IntVar(&q.Limit, "limit", 10, "page size")
	list.Flags().StringVar(&employeeType, "type", "", "courier, cashier or driver")

	cmd.AddCommand(list)
	return cmd
}
