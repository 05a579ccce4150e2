package dto

// UploadProgressEvent is one SSE frame of the upload progress stream.
type UploadProgressEvent struct {
	Step     string                 `json:"step"`
	Message  string                 `json:"message"`
	Progress int                    `json:"progress"`
	Error    bool                   `json:"error,omitempty"`
	Stopped  bool                   `json:"stopped,omitempty"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// PublishKnowledgeIndexedMessage is the event payload broadcast after a
// document lands in a knowledge collection.
type PublishKnowledgeIndexedMessage struct {
	Filename       string `json:"filename"`
	CollectionName string `json:"collection_name"`
	CategoryLevel  int    `json:"category_level"`
	ChunksCount    int    `json:"chunks_count"`
	FileHash       string `json:"file_hash"`
	URL            string `json:"url"`
}
