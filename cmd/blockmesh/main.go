// Command blockmesh evaluates a blockmesh program and prints a summary of
// the dataset or multiblock it produces.
//
// Usage:
//
//	blockmesh [-config blockmesh.json] [-json] script.bm
//	blockmesh -e '(outline (multiblock (cube) (cube :center (vec3 2 0 0))))'
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/chazu/blockmesh/pkg/config"
	"github.com/chazu/blockmesh/pkg/engine"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON configuration file")
	expr := flag.String("e", "", "evaluate this source instead of a script file")
	asJSON := flag.Bool("json", false, "print the result as JSON")
	flag.Parse()
	log.SetFlags(0)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("blockmesh: %v", err)
		}
	}

	source := *expr
	if source == "" {
		if flag.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "usage: blockmesh [-config file] [-json] (-e source | script)")
			os.Exit(2)
		}
		data, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			log.Fatalf("blockmesh: %v", err)
		}
		source = string(data)
	}

	result := NewApp(optionsFrom(cfg)).Evaluate(source)
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			log.Fatalf("blockmesh: %v", err)
		}
	} else {
		fmt.Print(render(result))
	}
	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}

// optionsFrom maps a configuration onto engine options.
func optionsFrom(cfg *config.Config) engine.Options {
	return engine.Options{
		Timeout:        cfg.GetEvalTimeout(),
		MeshCells:      cfg.GetMeshCells(),
		MergePoints:    cfg.GetMergePoints(),
		MergeTolerance: cfg.GetMergeTolerance(),
		CornerFactor:   cfg.GetCornerFactor(),
	}
}
