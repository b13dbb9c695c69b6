package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphview/pkg/config"
	"github.com/matzehuels/graphview/pkg/layout"
	"github.com/matzehuels/graphview/pkg/store"
)

// stateCommand inspects and clears persisted layout state.
func (c *CLI) stateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Manage persisted layout state",
	}

	cmd.AddCommand(c.stateShowCommand())
	cmd.AddCommand(c.stateResetCommand())

	return cmd
}

func (c *CLI) stateShowCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored layout state of a view",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			key := store.StateKey(cfg.Server.ViewID)
			data, ok, err := st.Get(cmd.Context(), key)
			if err != nil {
				return fmt.Errorf("read %s: %w", key, err)
			}
			out := cmd.OutOrStdout()
			if !ok {
				printInfo(out, "No layout state stored for view %s", StyleValue.Render(cfg.Server.ViewID))
				return nil
			}

			s, err := layout.DecodeJSON(data)
			if err != nil {
				return err
			}
			if asJSON {
				data, err = layout.EncodeJSON(s)
			} else {
				data, err = layout.EncodeTOML(s)
			}
			if err != nil {
				return err
			}
			printKeyValue(out, "view", cfg.Server.ViewID)
			printKeyValue(out, "backend", string(cfg.Store.Backend))
			fmt.Fprintln(out)
			fmt.Fprintln(out, string(data))
			return nil
		},
	}
	config.BindStoreFlags(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of TOML")
	return cmd
}

func (c *CLI) stateResetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the stored layout state of a view",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			key := store.StateKey(cfg.Server.ViewID)
			if err := st.Delete(cmd.Context(), key); err != nil {
				return fmt.Errorf("delete %s: %w", key, err)
			}
			printSuccess(cmd.OutOrStdout(), "Cleared layout state for view %s", cfg.Server.ViewID)
			return nil
		},
	}
	config.BindStoreFlags(cmd.Flags())
	return cmd
}

func (c *CLI) openStore(cmd *cobra.Command) (*config.Config, store.Store, error) {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cmd.Context(), cfg.Store)
	if err != nil {
		return nil, nil, err
	}
	return cfg, st, nil
}
