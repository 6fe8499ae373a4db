// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	arksave "github.com/savekit/arksave"
	"github.com/savekit/arksave/export"
	"github.com/savekit/arksave/gps"
	"github.com/savekit/arksave/internal/config"
	"github.com/savekit/arksave/models"
)

var argsExport struct {
	configFile string
	outputPath string
	gpsOriginX float64
	gpsOriginY float64
	gpsScale   float64
}

var cmdExport = &cobra.Command{
	Use:   "export <file>",
	Short: "Decode a save file and export it as ASV-compatible JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(argsExport.configFile, argsExport.configFile != "")
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}

		result, err := arksave.Load(args[0], cfg)
		if err != nil {
			return err
		}
		if result.ParseErrorCount > 0 {
			log.Printf("export: %d recoverable parse errors\n", result.ParseErrorCount)
		}

		var mapper *gps.Mapper
		if argsExport.gpsScale != 0 {
			mapper = gps.NewMapper(argsExport.gpsOriginX, argsExport.gpsOriginY, argsExport.gpsScale)
		}

		var profiles []models.Profile_t
		for _, o := range result.Container.Profiles() {
			profiles = append(profiles, models.ExtractProfile(o))
		}
		var tribes []models.Tribe_t
		for _, o := range result.Container.Tribes() {
			tribes = append(tribes, models.ExtractTribe(o))
		}
		var creatures []models.Creature_t
		for _, o := range result.Container.Creatures() {
			creatures = append(creatures, models.ExtractCreature(o))
		}
		var structures []models.Structure_t
		for _, o := range result.Container.Structures() {
			structures = append(structures, models.ExtractStructure(o, result.GameTime))
		}

		out, err := export.All(profiles, tribes, creatures, structures, mapper)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("export: marshal: %w", err)
		}

		if argsExport.outputPath == "" {
			_, err = os.Stdout.Write(append(data, '\n'))
			return err
		}
		return os.WriteFile(argsExport.outputPath, data, 0644)
	},
}
