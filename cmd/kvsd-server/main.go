// Command kvsd-server runs a kvsd instance: it pins its data directory
// to one storage backend, opens that backend, and serves the wire
// protocol until the process is killed.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arvindmehta/kvsd/internal/btreeengine"
	"github.com/arvindmehta/kvsd/internal/engine"
	"github.com/arvindmehta/kvsd/internal/lockfile"
	"github.com/arvindmehta/kvsd/internal/logengine"
	"github.com/arvindmehta/kvsd/internal/server"
	"github.com/arvindmehta/kvsd/pkg/kvslogger"
	"github.com/arvindmehta/kvsd/pkg/kvsoptions"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var addr, dataDir, engineName string
	var compactionThreshold uint64

	cmd := &cobra.Command{
		Use:           "kvsd-server",
		Short:         "Run a kvsd server instance",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := kvsoptions.ParseEngine(engineName)
			if err != nil {
				return err
			}

			opts := kvsoptions.DefaultOptions()
			for _, apply := range []kvsoptions.OptionFunc{
				kvsoptions.WithAddr(addr),
				kvsoptions.WithDataDir(dataDir),
				kvsoptions.WithEngine(selected),
				kvsoptions.WithCompactionThreshold(compactionThreshold),
			} {
				apply(&opts)
			}
			return run(opts)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", kvsoptions.DefaultAddr, "address to listen on")
	cmd.Flags().StringVar(&dataDir, "data-dir", kvsoptions.DefaultDataDir, "directory to store data in")
	cmd.Flags().StringVar(&engineName, "engine", string(kvsoptions.EngineKVS), "storage engine: kvs or sled")
	cmd.Flags().Uint64Var(&compactionThreshold, "compaction-threshold", kvsoptions.DefaultCompactionThreshold, "dead bytes tolerated before compaction (log engine only)")

	return cmd
}

func run(opts kvsoptions.Options) error {
	log := kvslogger.New("kvsd-server")
	defer log.Sync()

	log.Infow("starting kvsd-server",
		"addr", opts.Addr,
		"dataDir", opts.DataDir,
		"engine", opts.Engine,
		"compactionThreshold", kvsoptions.FormatBytes(opts.CompactionThreshold),
	)

	if err := lockfile.Ensure(opts.DataDir, opts.Engine); err != nil {
		log.Errorw("engine lock check failed", "error", err)
		return err
	}

	var eng engine.Engine
	switch opts.Engine {
	case kvsoptions.EngineKVS:
		e, err := logengine.Open(log, opts.DataDir, opts.CompactionThreshold)
		if err != nil {
			log.Errorw("failed to open log engine", "error", err)
			return err
		}
		eng = e
	case kvsoptions.EngineSled:
		e, err := btreeengine.Open(log, opts.DataDir)
		if err != nil {
			log.Errorw("failed to open btree engine", "error", err)
			return err
		}
		eng = e
	default:
		return fmt.Errorf("unknown engine %q", opts.Engine)
	}
	defer eng.Close()

	srv, err := server.New(log, eng, opts.Addr)
	if err != nil {
		log.Errorw("failed to bind server", "error", err)
		return err
	}
	defer srv.Close()

	return srv.Serve()
}
