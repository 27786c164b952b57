package deploy

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/syncbuild/syncbuild/engine/interval"
	"github.com/syncbuild/syncbuild/engine/manifest"
	"github.com/syncbuild/syncbuild/pkg/logger"
)

// FileBody carries both the compiled artifact and the original source so the
// server can display what was deployed.
type FileBody struct {
	JS string `json:"js"`
	TS string `json:"ts"`
}

// Unit is one deployable flow in the wire format the deploy endpoint
// expects.
type Unit struct {
	SyncName          string            `json:"syncName"`
	ProviderConfigKey string            `json:"providerConfigKey"`
	Models            []string          `json:"models"`
	Version           string            `json:"version,omitempty"`
	Runs              string            `json:"runs"`
	TrackDeletes      bool              `json:"track_deletes"`
	AutoStart         bool              `json:"auto_start"`
	Attributes        map[string]any    `json:"attributes"`
	Metadata          map[string]any    `json:"metadata"`
	Type              manifest.FlowType `json:"type"`
	FileBody          FileBody          `json:"fileBody"`
	ModelSchema       json.RawMessage   `json:"model_schema"`
}

// Packager assembles deployment units from normalized descriptors and the
// artifacts on disk.
type Packager struct {
	scriptsDir string
	outDir     string
}

func NewPackager(scriptsDir, outDir string) *Packager {
	return &Packager{scriptsDir: scriptsDir, outDir: outDir}
}

// Package builds the unit batch. Flows whose compiled artifact is missing
// are skipped with a warning; a sync whose cadence does not resolve fails
// the whole batch so a broken schedule is never half-deployed.
//
// onlySyncName and onlyActionName narrow the batch to one named sync and/or
// one named action; when both are given the selections union, and when both
// are empty every flow is packaged.
func (p *Packager) Package(
	ctx context.Context,
	integrations []manifest.SimplifiedIntegration,
	version string,
	onlySyncName, onlyActionName string,
) ([]Unit, error) {
	log := logger.FromContext(ctx)
	all := onlySyncName == "" && onlyActionName == ""

	units := []Unit{}
	for _, integration := range integrations {
		for i := range integration.Syncs {
			if !all && integration.Syncs[i].Name != onlySyncName {
				continue
			}
			unit, ok, err := p.buildUnit(ctx, integration.ProviderConfigKey, &integration.Syncs[i], version)
			if err != nil {
				return nil, err
			}
			if ok {
				units = append(units, unit)
			}
		}
		for i := range integration.Actions {
			if !all && integration.Actions[i].Name != onlyActionName {
				continue
			}
			unit, ok, err := p.buildUnit(ctx, integration.ProviderConfigKey, &integration.Actions[i], version)
			if err != nil {
				return nil, err
			}
			if ok {
				units = append(units, unit)
			}
		}
	}
	log.Info("packaged deployment units", "count", len(units))
	return units, nil
}

func (p *Packager) buildUnit(
	ctx context.Context,
	providerConfigKey string,
	flow *manifest.FlowConfig,
	version string,
) (Unit, bool, error) {
	log := logger.FromContext(ctx)

	switch flow.Type {
	case manifest.FlowTypeSync:
		if flow.Runs == "" {
			log.Warn("sync has no cadence, skipping", "flow", flow.Name)
			return Unit{}, false, nil
		}
		if _, err := interval.Resolve(flow.Runs, time.Now()); err != nil {
			return Unit{}, false, NewCadenceError(flow.Name, err)
		}
	case manifest.FlowTypeAction:
		// No cadence to validate.
	default:
		log.Warn("unknown flow type, skipping", "flow", flow.Name, "type", flow.Type)
		return Unit{}, false, nil
	}

	jsPath := filepath.Join(p.outDir, flow.Name+".js")
	compiled, err := os.ReadFile(jsPath)
	if err != nil {
		log.Warn("compiled artifact missing, skipping", "flow", flow.Name, "file", jsPath)
		return Unit{}, false, nil
	}
	source, err := os.ReadFile(filepath.Join(p.scriptsDir, flow.Name+".ts"))
	if err != nil {
		log.Warn("script source missing, skipping", "flow", flow.Name)
		return Unit{}, false, nil
	}

	schema, err := json.Marshal(flow.Models)
	if err != nil {
		return Unit{}, false, NewSchemaError(flow.Name, err)
	}

	metadata := map[string]any{}
	if flow.Description != "" {
		metadata["description"] = flow.Description
	}
	if len(flow.Scopes) > 0 {
		metadata["scopes"] = flow.Scopes
	}

	// The wire contract wants models as an array even for flows that return
	// nothing.
	models := flow.Returns
	if models == nil {
		models = []string{}
	}

	return Unit{
		SyncName:          flow.Name,
		ProviderConfigKey: providerConfigKey,
		Models:            models,
		Version:           version,
		Runs:              flow.Runs,
		TrackDeletes:      flow.TrackDeletes,
		AutoStart:         flow.AutoStart,
		Attributes:        flow.Attributes,
		Metadata:          metadata,
		Type:              flow.Type,
		FileBody:          FileBody{JS: string(compiled), TS: string(source)},
		ModelSchema:       schema,
	}, true, nil
}
