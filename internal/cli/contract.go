package cli

import (
	"github.com/spf13/cobra"

	"github.com/dgallion1/tgschema/internal/contract"
)

func newContractCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "contract",
		Short: "Print the JSON Schema of the generated schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := contract.DocumentJSON()
			if err != nil {
				return err
			}
			doc = append(doc, '\n')
			_, err = cmd.OutOrStdout().Write(doc)
			return err
		},
	}
}
