package constant

import "fmt"

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleModel     = "model"
	ChatMessageRoleSystem    = "system"

	MinAccessTier = 1
	MaxAccessTier = 4

	KnowledgeCollectionPrefix = "knowledge-level-"
	MemoryCollectionName      = "memory"

	// Retrieval pulls the top matches from every accessible collection.
	KnowledgeResultsPerCollection = 2

	// NoKnowledgePlaceholder is injected when retrieval comes back empty so the
	// generation prompt always has a defined supporting-knowledge block.
	NoKnowledgePlaceholder = "I'm sorry, I don't have any relevant information for your question."

	// FallbackChatResponse is returned when the LLM call fails. A chat turn must
	// always produce a response.
	FallbackChatResponse = "Maaf, saya mengalami kesulitan dalam menjawab. Silakan coba lagi."

	ChatSystemPromptV1 = `You are Bejo, an assistant that is helpful, friendly, and informative 😊.
If the information is not available or not clearly stated, respond politely that you do not have enough data to answer.

Here is some relevant memory of the user:
%s

### Supporting Knowledge:
Use this reference **only if it's relevant** to the user's question.
When using this knowledge, **always mention the source** by referencing the provided (Source: ...) in your response:
------------------
%s
------------------

Strictly avoid making assumptions or hallucinating information. Always ensure your responses are factual and based on the data above.`
)

// KnowledgeCollectionName returns the collection holding tier N content.
func KnowledgeCollectionName(tier int) string {
	return fmt.Sprintf("%s%d", KnowledgeCollectionPrefix, tier)
}
