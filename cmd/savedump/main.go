// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package main implements the savedump CLI: decode a save file and print a
// summary, or export it to the ASV-compatible JSON shape.
package main

import (
	"log"
	"os"

	"github.com/maloquacious/semver"
	"github.com/spf13/cobra"
)

var version = semver.Version{
	Major: 0,
	Minor: 1,
	Patch: 0,
	Build: semver.Commit(),
}

func main() {
	log.SetFlags(log.Lshortfile | log.Ltime)
	if err := Execute(); err != nil {
		log.Fatal(err)
	}
}

var cmdRoot = &cobra.Command{
	Use:   "savedump",
	Short: "Inspect and export survival-game save files",
	Long:  `Decode ASE and ASA save files into a typed object graph and optionally export it as JSON.`,
}

func Execute() error {
	cmdRoot.AddCommand(cmdDecode)
	cmdDecode.Flags().StringVar(&argsDecode.configFile, "config", "", "path to config file")
	cmdDecode.Flags().IntVar(&argsDecode.maxObjects, "max-objects", 0, "cap the number of objects decoded (0 = unlimited)")

	cmdRoot.AddCommand(cmdExport)
	cmdExport.Flags().StringVar(&argsExport.configFile, "config", "", "path to config file")
	cmdExport.Flags().StringVar(&argsExport.outputPath, "output", "", "write JSON to this path instead of stdout")
	cmdExport.Flags().Float64Var(&argsExport.gpsOriginX, "gps-origin-x", 0, "GPS mapper origin X (world units)")
	cmdExport.Flags().Float64Var(&argsExport.gpsOriginY, "gps-origin-y", 0, "GPS mapper origin Y (world units)")
	cmdExport.Flags().Float64Var(&argsExport.gpsScale, "gps-scale", 0, "GPS mapper scale (world units per GPS unit); 0 disables GPS mapping")

	cmdRoot.AddCommand(cmdVersion)

	return cmdRoot.Execute()
}

var cmdVersion = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of this application",
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = os.Stdout.WriteString(version.String() + "\n")
	},
}
