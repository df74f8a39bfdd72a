package preflight

import (
	"context"

	"voiceapp/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// minFreeBytes is the free-space floor for the upload directory.
const minFreeBytes = 512 << 20

// RunLocal executes the checks that need no network access.
func RunLocal(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	return []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Upload directory", cfg.Paths.UploadDir),
		CheckFreeSpace("Upload disk space", cfg.Paths.UploadDir, minFreeBytes),
		CheckDatabase(ctx, cfg),
	}
}

// RunAll executes every applicable preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := RunLocal(ctx, cfg)
	results = append(results, CheckTranscription(ctx, cfg.GetTranscription()))
	results = append(results, CheckLLM(ctx, "Analysis LLM", cfg.AnalysisLLM()))

	// The chat check only adds information when it exercises a different model.
	if chatUsesDistinctModel(cfg) {
		results = append(results, CheckLLM(ctx, "Chat LLM", cfg.ChatLLM()))
	}
	return results
}

// Failed counts results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}
	return n
}

func chatUsesDistinctModel(cfg *config.Config) bool {
	return cfg.AnalysisLLM().Model != cfg.ChatLLM().Model
}
