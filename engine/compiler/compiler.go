package compiler

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/evanw/esbuild/pkg/api"

	"github.com/syncbuild/syncbuild/engine/linter"
	"github.com/syncbuild/syncbuild/engine/manifest"
	"github.com/syncbuild/syncbuild/engine/typegen"
	"github.com/syncbuild/syncbuild/pkg/logger"
)

const (
	// ManifestFileName is the integration manifest inside the scripts directory.
	ManifestFileName = "integrations.yaml"
	// GeneratedModelsFile holds the generated type declarations and the
	// serialized flow configuration. It is never compiled or watched.
	GeneratedModelsFile = "models.ts"
	// OutDirName is where compiled scripts are written.
	OutDirName = "dist"
	// TsconfigFileName is the externally authored compiler-options document.
	TsconfigFileName = "tsconfig.json"
)

// Config locates the project on disk.
type Config struct {
	ScriptsDir   string
	OutDir       string
	ManifestPath string
	TsconfigPath string
}

// DefaultConfig derives the standard project layout from the scripts
// directory.
func DefaultConfig(scriptsDir string) Config {
	return Config{
		ScriptsDir:   scriptsDir,
		OutDir:       filepath.Join(scriptsDir, OutDirName),
		ManifestPath: filepath.Join(scriptsDir, ManifestFileName),
		TsconfigPath: filepath.Join(scriptsDir, TsconfigFileName),
	}
}

// Service drives linting and compilation of the scripts declared in the
// manifest. Descriptors are normalized once per build invocation and shared
// read-only; the watch loop re-normalizes them on every manifest event.
type Service struct {
	cfg          Config
	integrations []manifest.SimplifiedIntegration
	modelNames   []string
}

// NewService loads and normalizes the manifest. Empty config fields fall
// back to the standard layout under cfg.ScriptsDir.
func NewService(ctx context.Context, cfg Config) (*Service, error) {
	if err := mergo.Merge(&cfg, DefaultConfig(cfg.ScriptsDir)); err != nil {
		return nil, err
	}
	s := &Service{cfg: cfg}
	if err := s.reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// reload re-reads the manifest and rebuilds the descriptors.
func (s *Service) reload(ctx context.Context) error {
	doc, err := manifest.Load(s.cfg.ManifestPath)
	if err != nil {
		return err
	}
	integrations, err := manifest.Normalize(doc)
	if err != nil {
		return err
	}
	s.integrations = integrations
	s.modelNames = doc.ModelNames()
	log := logger.FromContext(ctx)
	log.Debug("manifest normalized",
		"providers", len(integrations),
		"models", len(s.modelNames))
	return nil
}

// GenerateDeclarations rewrites the models.ts declarations file from the
// current manifest. Called up front by every build entry point and again by
// the watch loop after a manifest reload.
func (s *Service) GenerateDeclarations(ctx context.Context) error {
	doc, err := manifest.Load(s.cfg.ManifestPath)
	if err != nil {
		return err
	}
	models, err := manifest.ResolveModels(doc)
	if err != nil {
		return err
	}
	return typegen.Generate(ctx, s.cfg.ScriptsDir, models, s.integrations)
}

func (s *Service) Config() Config {
	return s.cfg
}

func (s *Service) Integrations() []manifest.SimplifiedIntegration {
	return s.integrations
}

func (s *Service) ModelNames() []string {
	return s.modelNames
}

// findFlow locates the descriptor whose name matches a script file name.
func (s *Service) findFlow(name string) (*manifest.FlowConfig, bool) {
	for i := range s.integrations {
		for j := range s.integrations[i].Syncs {
			if s.integrations[i].Syncs[j].Name == name {
				return &s.integrations[i].Syncs[j], true
			}
		}
		for j := range s.integrations[i].Actions {
			if s.integrations[i].Actions[j].Name == name {
				return &s.integrations[i].Actions[j], true
			}
		}
	}
	return nil, false
}

// CompileAll lints and compiles every script under the scripts directory.
// The batch is fail-soft: a failing file is logged and the rest still
// compile. Returns overall success.
func (s *Service) CompileAll(ctx context.Context) bool {
	log := logger.FromContext(ctx)
	tsconfig := s.loadCompilerOptions(ctx)
	scripts, err := Discover(s.cfg.ScriptsDir)
	if err != nil {
		log.Error("script discovery failed", "error", err)
		return false
	}
	success := true
	for _, path := range scripts {
		if !s.compileFile(ctx, path, tsconfig, false) {
			success = false
		}
	}
	return success
}

// CompileFile lints and compiles one explicitly requested script.
func (s *Service) CompileFile(ctx context.Context, path string) bool {
	return s.compileFile(ctx, path, s.loadCompilerOptions(ctx), true)
}

func (s *Service) compileFile(ctx context.Context, path, tsconfig string, explicit bool) bool {
	log := logger.FromContext(ctx)
	name := ScriptName(path)

	flow, ok := s.findFlow(name)
	if !ok {
		// Not part of the manifest.
		if explicit {
			log.Warn("script has no flow entry in the manifest", "file", path)
			return false
		}
		log.Debug("skipping script not declared in the manifest", "file", path)
		return true
	}
	if err := flow.Validate(); err != nil {
		log.Warn("flow descriptor failed validation", "flow", flow.Name, "error", err)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		log.Error("failed to read script", "file", path, "error", err)
		return false
	}

	result, err := linter.Lint(source, path, flow.Type, s.modelNames)
	if err != nil {
		log.Error("failed to parse script", "file", path, "error", err)
		return false
	}
	for _, diag := range result.Diagnostics {
		switch diag.Severity {
		case linter.SeverityError:
			log.Error(diag.Message, "file", path, "line", diag.Line)
		default:
			log.Warn(diag.Message, "file", path, "line", diag.Line)
		}
	}
	if !result.UsedCorrectly {
		log.Error("script blocked by host-call usage errors", "file", path)
		return !explicit
	}

	compiled := api.Transform(string(source), api.TransformOptions{
		Loader:      api.LoaderTS,
		Format:      api.FormatCommonJS,
		Sourcefile:  path,
		TsconfigRaw: tsconfig,
		LogLevel:    api.LogLevelSilent,
	})
	if len(compiled.Errors) > 0 {
		log.Error("compilation failed", "file", path, "error", compiled.Errors[0].Text)
		return false
	}

	dest := s.outPath(path)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		log.Error("failed to create output directory", "dir", filepath.Dir(dest), "error", err)
		return false
	}
	if err := os.WriteFile(dest, compiled.Code, 0o644); err != nil {
		log.Error("failed to write compiled script", "file", dest, "error", err)
		return false
	}
	log.Info("compiled", "file", path, "out", dest)
	return true
}

// loadCompilerOptions reads the compiler-options document once per compile
// invocation. The content is opaque to this pipeline and handed to the
// compiler verbatim.
func (s *Service) loadCompilerOptions(ctx context.Context) string {
	raw, err := os.ReadFile(s.cfg.TsconfigPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.FromContext(ctx).Warn("failed to read compiler options", "file", s.cfg.TsconfigPath, "error", err)
		}
		return ""
	}
	return string(raw)
}

func (s *Service) outPath(scriptPath string) string {
	return filepath.Join(s.cfg.OutDir, ScriptName(scriptPath)+".js")
}

// ScriptName is the flow name a script file maps to.
func ScriptName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".ts")
}
