package main

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const starterConfig = `definitions: %s
output:
  format: text
  color: true
`

const starterRecord = `{
  "types": [
    {
      "name": "block",
      "kind": "record",
      "doc": "A contiguous region of data",
      "fields": [
        {"name": "blocksize", "type": "int"},
        {"name": "ranges", "type": {"list": {"tuple": ["int64", "int64"]}}},
        {"name": "label", "type": {"option": "string"}}
      ]
    }
  ]
}
`

const starterSum = `{
  "types": [
    {
      "name": "status",
      "kind": "sum",
      "doc": "Lifecycle state of a job",
      "constructors": [
        {"name": "Queued"},
        {"name": "Running", "payload": ["float"]},
        {"name": "Failed", "payload": ["string"], "doc": "Terminal, carries the reason"}
      ]
    }
  ]
}
`

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Scaffold a starter definitions file and loom.yml",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		var fileName string
		prompt := &survey.Input{
			Message: "Definitions file name:",
			Default: "types.json",
		}
		if err := survey.AskOne(prompt, &fileName, survey.WithValidator(survey.Required)); err != nil {
			return err
		}

		var kind string
		sel := &survey.Select{
			Message: "Starter definition:",
			Options: []string{"record", "sum"},
			Default: "record",
		}
		if err := survey.AskOne(sel, &kind); err != nil {
			return err
		}

		if _, err := os.Stat(fileName); err == nil {
			return fmt.Errorf("%s already exists", fileName)
		}

		starter := starterRecord
		if kind == "sum" {
			starter = starterSum
		}
		if err := os.WriteFile(fileName, []byte(starter), 0o644); err != nil {
			return err
		}
		if _, err := os.Stat("loom.yml"); os.IsNotExist(err) {
			if err := os.WriteFile("loom.yml", []byte(fmt.Sprintf(starterConfig, fileName)), 0o644); err != nil {
				return err
			}
		}

		green := color.New(color.FgGreen)
		green.Printf("✓ wrote %s\n", fileName)
		fmt.Println("Next: loom check && loom describe")
		return nil
	},
}
