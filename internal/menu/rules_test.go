package menu

import "testing"

func TestQuickReplyOptionsResolve(t *testing.T) {
	for trigger, rule := range Rules() {
		if rule.Action.Kind != KindQuickReply {
			continue
		}
		for _, option := range rule.Action.Options {
			if _, ok := Rules()[option]; ok {
				continue
			}
			if IsTerminalLeaf(option) {
				continue
			}
			t.Errorf("option %q of trigger %q is neither a trigger nor a terminal leaf", option, trigger)
		}
	}
}

func TestTerminalLeavesAreNotTriggers(t *testing.T) {
	for leaf := range terminalLeaves {
		if _, ok := rules[leaf]; ok {
			t.Errorf("terminal leaf %q is also a trigger", leaf)
		}
	}
}

func TestGuardedRulesHaveRejectText(t *testing.T) {
	for trigger, rule := range Rules() {
		if rule.Guard == GuardNone {
			continue
		}
		if rule.RejectText == "" {
			t.Errorf("guarded trigger %q has no reject text", trigger)
		}
	}
}

func TestTopLevelMenu(t *testing.T) {
	rule, ok := Rules()["店舗情報一覧を取得"]
	if !ok {
		t.Fatal("store info trigger missing from rule table")
	}
	if rule.Action.Kind != KindQuickReply {
		t.Fatalf("expected quick reply, got kind %v", rule.Action.Kind)
	}
	if rule.Action.Prompt != "取得したい大学エリアを指定してください" {
		t.Errorf("unexpected prompt %q", rule.Action.Prompt)
	}
	want := []string{"立命館大学OICエリア", "立命館大学BKCエリア"}
	if len(rule.Action.Options) != len(want) {
		t.Fatalf("expected %d options, got %d", len(want), len(rule.Action.Options))
	}
	for i, option := range want {
		if rule.Action.Options[i] != option {
			t.Errorf("option %d: expected %q, got %q", i, option, rule.Action.Options[i])
		}
	}
}
