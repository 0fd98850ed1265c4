package detection

import "testing"

func TestSelectAction_ExplicitPath(t *testing.T) {
	action := SelectAction(RootDecisionInput{ExplicitPath: true})

	if action.Type != ActionProceed {
		t.Errorf("expected ActionProceed, got %q", action.Type)
	}
	if action.Message != "" {
		t.Errorf("expected no message, got %q", action.Message)
	}
}

func TestSelectAction_Confident(t *testing.T) {
	action := SelectAction(RootDecisionInput{Confident: true, Interactive: true})

	if action.Type != ActionProceed {
		t.Errorf("expected ActionProceed, got %q", action.Type)
	}
}

func TestSelectAction_AssumeYes(t *testing.T) {
	action := SelectAction(RootDecisionInput{AssumeYes: true, Interactive: true})

	if action.Type != ActionProceed {
		t.Errorf("expected ActionProceed, got %q", action.Type)
	}
	if action.Message == "" {
		t.Error("expected a warning message for a fallback root")
	}
}

func TestSelectAction_Interactive(t *testing.T) {
	action := SelectAction(RootDecisionInput{Interactive: true})

	if action.Type != ActionConfirm {
		t.Errorf("expected ActionConfirm, got %q", action.Type)
	}
}

func TestSelectAction_NonInteractive(t *testing.T) {
	action := SelectAction(RootDecisionInput{})

	if action.Type != ActionAbort {
		t.Errorf("expected ActionAbort, got %q", action.Type)
	}
	if action.Message != "solution root not detected; pass --base-path or --yes" {
		t.Errorf("unexpected message %q", action.Message)
	}
}
