package assistant

// Notices shown to the learner instead of generated content.
const (
	NoticeEmptyQuestion         = "Please enter a valid conceptual query."
	NoticeAssistantUnavailable  = "The Learning Assistant is currently under maintenance. Please try again shortly."
	NoticeEmptyToolInput        = "Please enter some text for this tool to work with."
	NoticeUnknownTool           = "This learning tool is not available."
	NoticeToolFailed            = "Sorry, this tool could not complete your request right now. Please try again."
	NoticeEmptyStudyContent     = "Please paste some study material to turn into notes."
	NoticeStudyNotesFailed      = "Sorry, study notes could not be generated right now. Please try again."
	NoticeEmptyFlashcardContent = "Please paste some study material to turn into flashcards."
	NoticeFlashcardsFailed      = "Flashcards could not be generated right now. Please try again."
	NoticeMissingImage          = "Please upload or capture a document image first."
	NoticeMissingInstruction    = "Please describe the edit you would like to make."
	NoticeImageEditFailed       = "The document image could not be edited right now."
	NoticeExplainFailed         = "The document could not be explained right now."
	NoticeOCRFailed             = "The document could not be read right now. Try a sharper, well-lit photo."
)

// Tool identifiers recorded with generated-content activity.
const (
	ToolIDLearningAssistant = "learning_assistant"
	ToolIDStudyNotes        = "study_notes"
	ToolIDFlashcards        = "flashcards"
	ToolIDDocumentEdit      = "document_edit"
	ToolIDDocumentExplain   = "document_explain"
	ToolIDDocumentOCR       = "document_ocr"
)
