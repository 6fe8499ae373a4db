// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package main

import (
	"fmt"
	"log"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	arksave "github.com/savekit/arksave"
	"github.com/savekit/arksave/internal/config"
)

var argsDecode struct {
	configFile string
	maxObjects int
}

var cmdDecode = &cobra.Command{
	Use:   "decode <file>",
	Short: "Decode a save file and print a summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(argsDecode.configFile, argsDecode.configFile != "")
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if argsDecode.maxObjects > 0 {
			cfg.MaxObjects = argsDecode.maxObjects
		}

		result, err := arksave.Load(args[0], cfg)
		if err != nil {
			return err
		}

		log.Printf("format: %s, kind: %s, objects: %s, parse errors: %d\n",
			result.Format, result.Kind, humanize.Comma(int64(result.Container.Len())), result.ParseErrorCount)
		if result.Warning != "" {
			log.Printf("warning: %s\n", result.Warning)
		}
		log.Printf("creatures: %d, structures: %d, players: %d, items: %d\n",
			len(result.Container.Creatures()), len(result.Container.Structures()),
			len(result.Container.PlayerPawns()), len(result.Container.Items()))
		return nil
	},
}
