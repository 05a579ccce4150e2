package agent

import (
	"context"
	"strings"

	"bejo-chatbot-be/internal/constant"
	"bejo-chatbot-be/internal/pkg/logger"
	"bejo-chatbot-be/pkg/knowledge"
)

// KnowledgeSearcher is the read side of the knowledge store gateway.
type KnowledgeSearcher interface {
	Search(ctx context.Context, query string, collections []string, perCollectionLimit int) []knowledge.SearchResult
}

// CollectionsForTier resolves the nested collection set for an access tier.
// Tier 1 sees only level 1; tier 4 sees every level. Collections are ordered
// highest level first. Out-of-range tiers fall back to the lowest tier, the
// boundary validates before this is ever hit.
func CollectionsForTier(tier int) []string {
	if tier < constant.MinAccessTier || tier > constant.MaxAccessTier {
		tier = constant.MinAccessTier
	}
	names := make([]string, 0, tier)
	for level := tier; level >= constant.MinAccessTier; level-- {
		names = append(names, constant.KnowledgeCollectionName(level))
	}
	return names
}

// FormatKnowledgeBlocks renders retrieved results as source-attributed blocks
// separated by blank lines, deduplicated. An empty result set yields the fixed
// placeholder so the generation prompt never sees an empty knowledge section.
func FormatKnowledgeBlocks(results []knowledge.SearchResult) string {
	blocks := make([]string, 0, len(results))
	for _, res := range results {
		source := res.Source
		if source == "" {
			source = "unknown"
		}
		blocks = append(blocks, res.Content+"\n(Source: "+source+")")
	}

	combined := strings.Join(blocks, "\n\n")
	if combined == "" {
		return constant.NoKnowledgePlaceholder
	}
	return DeduplicateBlocks(combined)
}

// DeduplicateBlocks removes repeated blank-line-separated blocks, keeping the
// first occurrence. Running it on already-deduplicated text is a no-op.
func DeduplicateBlocks(text string) string {
	blocks := strings.Split(text, "\n\n")
	seen := make(map[string]bool, len(blocks))
	unique := blocks[:0]
	for _, block := range blocks {
		if seen[block] {
			continue
		}
		seen[block] = true
		unique = append(unique, block)
	}
	return strings.Join(unique, "\n\n")
}

// retrievalNode fills state.RetrievedKnowledge from the tier-accessible
// collections. Per-collection failures are handled inside the gateway and are
// never fatal here.
type retrievalNode struct {
	store  KnowledgeSearcher
	logger logger.ILogger
}

func (n *retrievalNode) run(ctx context.Context, state *ConversationState) {
	collections := CollectionsForTier(state.AccessTier)
	results := n.store.Search(ctx, state.LastMessage().Content, collections, constant.KnowledgeResultsPerCollection)

	state.RetrievedKnowledge = FormatKnowledgeBlocks(results)

	n.logger.Info("agent", "Knowledge retrieval finished", map[string]interface{}{
		"access_tier": state.AccessTier,
		"collections": len(collections),
		"documents":   len(results),
	})
}
