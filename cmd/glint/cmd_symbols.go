package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/glint/ide"
	"github.com/dhamidi/glint/internal/config"
	"github.com/spf13/cobra"
)

func newSymbolsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "symbols <dir>",
		Short: "Index a workspace and list its symbols",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rootDir := args[0]
			cfg, err := config.Load(configPath, rootDir)
			if err != nil {
				return err
			}

			host := ide.NewHost()
			if err := loadWorkspace(host, rootDir, cfg.Index.Exclude); err != nil {
				return err
			}
			if err := host.IndexAll(cfg.Index.Workers); err != nil {
				return err
			}

			symbols, err := host.WorkspaceSymbols()
			if err != nil {
				return err
			}
			for _, sym := range symbols {
				path, _ := host.Path(sym.File)
				fmt.Printf("%s:%s: %s %s\n", path, sym.SelectionRange, sym.Kind, sym.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a .glint.toml")

	return cmd
}

func loadWorkspace(host *ide.Host, rootDir string, exclude []string) error {
	return filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != rootDir {
				return filepath.SkipDir
			}
			for _, pattern := range exclude {
				if ok, _ := filepath.Match(pattern, info.Name()); ok {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if filepath.Ext(path) != ".rue" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		host.SetFileText(path, string(data))
		return nil
	})
}
