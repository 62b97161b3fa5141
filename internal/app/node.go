package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/maestro/internal/adapters/cas"     //nolint:depguard // Wired in app layer
	"go.trai.ch/maestro/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/maestro/internal/adapters/fs"      //nolint:depguard // Wired in app layer
	"go.trai.ch/maestro/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/maestro/internal/adapters/rules"   //nolint:depguard // Wired in app layer
	"go.trai.ch/maestro/internal/adapters/shell"   //nolint:depguard // Wired in app layer
	"go.trai.ch/maestro/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/maestro/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.FileSystemNodeID,
			fs.HasherNodeID,
			cas.NodeID,
			cas.OutputStoreNodeID,
			rules.NodeID,
			shell.NodeID,
			watcher.WatcherNodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(app, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	fsys, err := graft.Dep[ports.FileSystem](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	hashes, err := graft.Dep[ports.ConfigHashStore](ctx)
	if err != nil {
		return nil, err
	}

	outputs, err := graft.Dep[ports.OutputStore](ctx)
	if err != nil {
		return nil, err
	}

	ruleStore, err := graft.Dep[ports.RuleStore](ctx)
	if err != nil {
		return nil, err
	}

	runner, err := graft.Dep[ports.CommandRunner](ctx)
	if err != nil {
		return nil, err
	}

	watch, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, fsys, hasher, hashes, outputs, ruleStore, runner, watch, log), nil
}
