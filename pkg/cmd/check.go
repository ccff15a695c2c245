// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// checkCmd validates a dataset configuration the way the configuration
// collaborator would before persisting it: calculator specs, name
// uniqueness, reference cycles, and (when row files are supplied, so that
// physical headers are known) relationship and display references.
var checkCmd = &cobra.Command{
	Use:   "check [flags] config_file [rows_file...]",
	Short: "validate a dataset configuration.",
	Long: `Validate a dataset configuration, reporting every calculator,
	naming, cycle and reference problem found.  Row files, when given,
	supply the physical column headers of their sheets.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		errs := checkConfig(args[0], args[1:])
		//
		for _, err := range errs {
			fmt.Printf("error: %v\n", err)
		}
		//
		if len(errs) > 0 {
			os.Exit(2)
		}
		//
		fmt.Println("OK")
	},
}

// Run every configuration-time validation, collecting rather than stopping.
func checkConfig(configFile string, rowFiles []string) []error {
	cfg, err := ReadConfigFile(configFile)
	if err != nil {
		return []error{err}
	}
	//
	catalogs, errs := cfg.BuildCatalogs()
	// Fold in physical headers from any supplied row files.  Sheets are
	// matched positionally against the configured sheet list.
	for i, file := range rowFiles {
		if i >= len(cfg.Sheets) {
			errs = append(errs, fmt.Errorf("row file %q has no matching sheet", file))
			break
		}
		//
		headers, _ := ReadRowsFile(file)
		catalogs[cfg.Sheets[i].Name].RefreshPhysical(headers)
	}
	//
	display, derrs := cfg.BuildDisplay()
	errs = append(errs, derrs...)
	// Relationship keys must resolve once headers are known.
	if rel := cfg.BuildRelationship(); rel != nil && len(rowFiles) > 0 {
		master, detail := catalogs[rel.MasterSheet], catalogs[rel.DetailSheet]
		//
		if master == nil || detail == nil {
			errs = append(errs, fmt.Errorf("relationship references unconfigured sheet"))
		} else if err := rel.Validate(master, detail); err != nil {
			errs = append(errs, err)
		}
	}
	// Display references are droppable at assembly time, but a check run
	// should still surface them.
	if len(rowFiles) > 0 && len(cfg.Sheets) > 0 {
		master := catalogs[cfg.Sheets[0].Name]
		//
		for _, fc := range display.Fields {
			if _, err := master.Resolve(fc.Column); err != nil {
				errs = append(errs, err)
			}
		}
	}
	//
	return errs
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
