// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	pe "github.com/DaXcess/hytale-reversing"
	"github.com/DaXcess/hytale-reversing/config"
	"github.com/DaXcess/hytale-reversing/idadef"
	"github.com/DaXcess/hytale-reversing/metadata"
	"github.com/DaXcess/hytale-reversing/mtscan"
	"github.com/DaXcess/hytale-reversing/reconstruct"
	"github.com/DaXcess/hytale-reversing/rtr"
)

var cfg = config.Default()

// openImage loads and parses the PE at path, ready for RTR/metadata work.
func openImage(path string) (*pe.File, error) {
	image, err := pe.New(path, &pe.Options{Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if err := image.Parse(); err != nil {
		image.Close()
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return image, nil
}

// allScopes decodes every scope definition embedded in the image.
func allScopes(mr *metadata.Reader) ([]metadata.ScopeDefinition, error) {
	var scopes []metadata.ScopeDefinition
	it := mr.Scopes.Iter()
	for {
		h, ok := it.Next()
		if !ok {
			break
		}
		sh, err := metadata.AsScopeDefinitionHandle(h)
		if err != nil {
			continue
		}
		s, err := mr.ScopeDefinition(sh)
		if err != nil {
			continue
		}
		scopes = append(scopes, s)
	}
	return scopes, nil
}

func runGetAssemblies(cmd *cobra.Command, args []string) error {
	image, err := openImage(args[0])
	if err != nil {
		return err
	}
	defer image.Close()

	header, err := rtr.ScanAndParse(image)
	if err != nil {
		return fmt.Errorf("locating ReadyToRun header: %w", err)
	}
	mr, err := header.Metadata()
	if err != nil {
		return fmt.Errorf("reading embedded metadata: %w", err)
	}

	scopes, err := allScopes(mr)
	if err != nil {
		return err
	}
	for _, s := range scopes {
		name, err := s.Name()
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping scope: %v\n", err)
			continue
		}
		fmt.Printf("%s, Version=%d.%d.%d.%d\n", name, s.MajorVersion(), s.MinorVersion(), s.BuildNumber(), s.RevisionNumber())
	}
	return nil
}

func runGetTypes(cmd *cobra.Command, args []string) error {
	image, err := openImage(args[0])
	if err != nil {
		return err
	}
	defer image.Close()

	header, err := rtr.ScanAndParse(image)
	if err != nil {
		return fmt.Errorf("locating ReadyToRun header: %w", err)
	}
	mr, err := header.Metadata()
	if err != nil {
		return fmt.Errorf("reading embedded metadata: %w", err)
	}

	scopes, err := allScopes(mr)
	if err != nil {
		return err
	}
	for _, s := range scopes {
		types, err := s.AllTypes()
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping scope: %v\n", err)
			continue
		}
		for _, t := range types {
			name, err := t.NameWithGenerics()
			if err != nil {
				continue
			}
			fmt.Printf("%s\n", name)

			fit := t.Fields()
			for {
				h, ok := fit.Next()
				if !ok {
					break
				}
				fh, err := metadata.AsFieldHandle(h)
				if err != nil {
					continue
				}
				field, err := mr.Field(fh)
				if err != nil {
					continue
				}
				fname, err := field.Name()
				if err != nil {
					continue
				}
				fmt.Printf("  field %s\n", fname)
			}

			mit := t.Methods()
			for {
				h, ok := mit.Next()
				if !ok {
					break
				}
				mh, err := metadata.AsMethodHandle(h)
				if err != nil {
					continue
				}
				m, err := mr.Method(mh)
				if err != nil {
					continue
				}
				sig, err := metadata.RenderMethodSignature(mr, t, m)
				if err != nil {
					continue
				}
				fmt.Printf("  method %s\n", sig)
			}
		}
	}
	return nil
}

func runDumpIDA(cmd *cobra.Command, args []string) error {
	image, err := openImage(args[0])
	if err != nil {
		return err
	}
	defer image.Close()

	header, err := rtr.ScanAndParse(image)
	if err != nil {
		return fmt.Errorf("locating ReadyToRun header: %w", err)
	}
	mr, err := header.Metadata()
	if err != nil {
		return fmt.Errorf("reading embedded metadata: %w", err)
	}

	scopes, err := allScopes(mr)
	if err != nil {
		return err
	}
	present := make(map[string]bool, len(scopes))
	for _, s := range scopes {
		name, err := s.Name()
		if err != nil {
			continue
		}
		present[name] = true
	}
	if missing := cfg.HasRequiredAssemblies(present); len(missing) > 0 {
		fmt.Fprintf(os.Stderr, "missing required assemblies: %s\n", strings.Join(missing, ", "))
		return nil
	}

	tables, err := mtscan.ScanMethodTables(image)
	if err != nil {
		return fmt.Errorf("scanning method tables: %w", err)
	}
	typeMap, err := header.BlobHashtable(rtr.TypeMap)
	if err != nil {
		return fmt.Errorf("reading TypeMap: %w", err)
	}
	invokeMap, err := header.BlobHashtable(rtr.InvokeMap)
	if err != nil {
		return fmt.Errorf("reading InvokeMap: %w", err)
	}
	fixups, err := header.CommonFixupsTable()
	if err != nil {
		return fmt.Errorf("reading common fixups table: %w", err)
	}

	r := reconstruct.New(tables, typeMap, invokeMap, fixups, mr)
	mtEntries := r.NameMethodTables()
	methods, err := r.NameMethods()
	if err != nil {
		return fmt.Errorf("naming methods: %w", err)
	}

	def := idadef.Build(mtEntries, methods)
	if err := def.WriteFile(cfg.OutputPath); err != nil {
		return fmt.Errorf("writing %s: %w", cfg.OutputPath, err)
	}

	fmt.Fprintf(os.Stderr, "Definition written to '%s'\n", cfg.OutputPath)
	return nil
}

// reportAndExit prints a processing error to stderr without changing the
// exit code, matching every subcommand's error-handling contract.
func reportAndExit(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

func main() {
	var requiredAssemblies []string

	rootCmd := &cobra.Command{
		Use:   "hytrev",
		Short: "Reconstructs managed types and methods from a NativeAOT binary",
		Long:  "hytrev reads a NativeAOT PE image, reconstructs its managed type and method universe from the embedded ReadyToRun structures, and can emit a disassembler-ready name map.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if len(requiredAssemblies) > 0 {
				cfg.RequiredAssemblies = requiredAssemblies
			}
			cfg.Logger = nil
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringArrayVar(&requiredAssemblies, "required-assembly", nil,
		"assembly name required to be present before dump-ida writes output (repeatable, default HytaleClient)")

	getAssembliesCmd := &cobra.Command{
		Use:   "get-assemblies <image>",
		Short: "List every assembly (scope) embedded in the image",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			reportAndExit(runGetAssemblies(cmd, args))
		},
	}

	getTypesCmd := &cobra.Command{
		Use:   "get-types <image>",
		Short: "List every type, field, and method embedded in the image",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			reportAndExit(runGetTypes(cmd, args))
		},
	}

	dumpIDACmd := &cobra.Command{
		Use:   "dump-ida <image>",
		Short: "Write hytale_def.json, a disassembler-ready VA-to-name map",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			reportAndExit(runDumpIDA(cmd, args))
		},
	}

	rootCmd.AddCommand(getAssembliesCmd, getTypesCmd, dumpIDACmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
