package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/tgschema/internal/contract"
	"github.com/dgallion1/tgschema/internal/schema"
)

func newValidateCommand(a *app) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "validate <schema.json|schema.yaml>",
		Short: "Check a generated schema against the output contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := language.Parse(lang)
			if err != nil {
				return fmt.Errorf("invalid --lang: %w", err)
			}
			data, err := readSchemaJSON(args[0])
			if err != nil {
				return err
			}

			v, err := contract.NewValidator(tag)
			if err != nil {
				return err
			}
			res := v.Validate(data)
			if res.Valid {
				s, err := schema.Decode(bytes.NewReader(data))
				if err != nil {
					return err
				}
				if err := schema.Validate(s); err != nil {
					res = contract.Result{Errors: []string{err.Error()}}
				}
			}

			out := cmd.OutOrStdout()
			if !res.Valid {
				for _, e := range res.Errors {
					fmt.Fprintln(out, e)
				}
				return fmt.Errorf("%s: %d contract violation(s)", args[0], len(res.Errors))
			}
			fmt.Fprintf(out, "%s: valid\n", args[0])
			a.log.Debug("schema valid", "path", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "en", "Language of violation messages (BCP 47)")
	return cmd
}

// readSchemaJSON returns the file as JSON, converting YAML by extension.
func readSchemaJSON(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		return json.Marshal(v)
	}
	return data, nil
}
