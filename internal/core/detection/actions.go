package detection

// Action types for a detected root before anything is written.
const (
	ActionProceed = "proceed" // root is trustworthy
	ActionConfirm = "confirm" // ask the user before writing
	ActionAbort   = "abort"   // refuse to write
)

// Action is what a caller should do with a detected root.
type Action struct {
	Type    string
	Message string
}

// RootDecisionInput describes how a root was obtained.
type RootDecisionInput struct {
	Confident      bool // detection matched a rule rather than falling back
	ExplicitPath   bool // the user passed the base path directly
	AssumeYes      bool // --yes
	Interactive    bool // a terminal is attached for a prompt
	DetectedReason string
}

// SelectAction decides whether generation may write under a root.
func SelectAction(in RootDecisionInput) Action {
	switch {
	case in.ExplicitPath, in.Confident:
		return Action{Type: ActionProceed}
	case in.AssumeYes:
		return Action{Type: ActionProceed, Message: "solution root not detected; proceeding because --yes was given"}
	case in.Interactive:
		return Action{Type: ActionConfirm, Message: "solution root not detected; output will be written under the fallback directory"}
	default:
		return Action{Type: ActionAbort, Message: "solution root not detected; pass --base-path or --yes"}
	}
}
