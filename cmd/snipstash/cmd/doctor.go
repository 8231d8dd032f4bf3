package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snipstash/snipstash/internal/ui"
)

func newDoctorCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and diagnose issues",
		Long: `Run diagnostics:
  - Configuration loads and validates
  - Snippet store opens and reports its size
  - Embedding provider reachability and installed models

Embedding checks are warnings, not failures: snipstash works fully
without a provider, it just searches lexically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, global)
		},
	}

	return cmd
}

func runDoctor(cmd *cobra.Command, global *globalOptions) error {
	p := ui.NewPrinter(cmd.OutOrStdout())

	a, err := openApp(cmd.Context(), global)
	if err != nil {
		p.Error("setup failed: " + err.Error())
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	p.Success("config ok")

	snippets, err := a.Store.All(ctx)
	if err != nil {
		p.Error("store check failed: " + err.Error())
		return err
	}
	p.Successf("store ok (%d snippets at %s)", len(snippets), a.Config.Store.Path)

	missing, err := a.Store.MissingEmbeddings(ctx)
	if err == nil && len(missing) > 0 {
		p.Line("%d snippets without embeddings (run 'snipstash reindex')", len(missing))
	}

	if !a.Config.Ollama.Enabled {
		p.Line("embedding provider disabled; search is lexical only")
		return nil
	}

	if !a.Embedder.Available(ctx) {
		p.Warning(fmt.Sprintf("embedding provider not reachable at %s", a.Config.Ollama.Endpoint))
		p.Line("semantic search will fall back to lexical until it is")
		return nil
	}
	p.Successf("embedding provider ok (%s)", a.Config.Ollama.Endpoint)

	models, err := a.Embedder.Models(ctx)
	if err != nil {
		p.Warning("could not list models: " + err.Error())
		return nil
	}

	configured := a.Config.Ollama.Model
	if modelInstalled(models, configured) {
		p.Successf("model %q installed", configured)
	} else {
		p.Warning(fmt.Sprintf("model %q not installed (run 'ollama pull %s')", configured, configured))
	}
	return nil
}

// modelInstalled reports whether name matches an installed model.
// Ollama reports tagged names ("nomic-embed-text:latest"), so a bare
// configured name matches its tagged variants.
func modelInstalled(models []string, name string) bool {
	for _, m := range models {
		if m == name || strings.SplitN(m, ":", 2)[0] == name {
			return true
		}
	}
	return false
}
