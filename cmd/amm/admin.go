package main

import (
	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage the pool-creation admin",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Set the first admin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addrs, err := addressFlags(cmd, "caller", "admin")
			if err != nil {
				return err
			}
			return mutate(cmd, func(s *session) (interface{}, error) {
				if err := s.engine.InitAdmin(s.ctx, addrs[0], addrs[1]); err != nil {
					return nil, err
				}
				return map[string]string{"admin": addrs[1].Hex()}, nil
			})
		},
	}
	initCmd.Flags().String("caller", "", "identity performing the init")
	initCmd.Flags().String("admin", "", "new admin identity")

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Transfer the admin role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addrs, err := addressFlags(cmd, "caller", "admin")
			if err != nil {
				return err
			}
			return mutate(cmd, func(s *session) (interface{}, error) {
				if err := s.engine.SetAdmin(s.ctx, addrs[0], addrs[1]); err != nil {
					return nil, err
				}
				return map[string]string{"admin": addrs[1].Hex()}, nil
			})
		},
	}
	setCmd.Flags().String("caller", "", "current admin identity")
	setCmd.Flags().String("admin", "", "new admin identity")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current admin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return inspect(cmd, func(s *session) (interface{}, error) {
				admin, ok := s.engine.Admin()
				if !ok {
					return map[string]interface{}{"initialized": false}, nil
				}
				return map[string]interface{}{"initialized": true, "admin": admin.Hex()}, nil
			})
		},
	}

	adminCmd.AddCommand(initCmd, setCmd, showCmd)
	return adminCmd
}
