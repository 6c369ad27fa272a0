package menu

// Guard is the precondition attached to a rule
type Guard int

const (
	// GuardNone means the rule's action applies unconditionally
	GuardNone Guard = iota
	// GuardRegistered requires prior survey registration; unregistered
	// users get the rule's rejection text instead of the action
	GuardRegistered
	// GuardRegister performs the one-time survey registration; already
	// registered users get the rule's rejection text instead
	GuardRegister
)

// Rule maps one exact trigger string to a reply action.
// RejectText is the reply used when the guard does not pass.
type Rule struct {
	Guard      Guard
	Action     Action
	RejectText string
}

// Trigger strings for the guarded menu paths
const (
	TriggerCouponMenu = "クーポンを取得"
	TriggerSurvey     = "アンケートに回答する"
)

const (
	couponGateText = "クーポンを取得するためにはアンケートへの回答が必須です。アンケートのご回答をお願いします。"

	surveyDoneText = "アンケートは既に回答済みです。"

	surveyConfirmText = "現在使用率を調査するためにアンケートを実施しております。\n" +
		"アンケートにご回答いただくとメニューからクーポンの取得が可能になります！\n" +
		"下記Google Formのリンクからアンケートにご回答いただくようお願いいたします。\n\n" +
		"https://forms.gle/NGXyR7pJngU4bbRa9"
)

// rules is the full dispatch table, fixed at startup and read-only.
// Every quick-reply option label is either another trigger in this
// table or a terminal leaf listed in terminalLeaves.
var rules = map[string]Rule{
	// 店舗情報
	"店舗情報一覧を取得": {
		Action: QuickReply(
			"取得したい大学エリアを指定してください",
			"立命館大学OICエリア", "立命館大学BKCエリア",
		),
	},
	"立命館大学BKCエリア": {
		Action: QuickReply(
			"立命館大学BKCエリアの情報を取得します。\nどのジャンルの店舗情報をお探しですか？",
			"ラーメン(BKC)",
		),
	},
	"立命館大学OICエリア": {
		Action: QuickReply(
			"立命館大学OICエリアの情報を取得します。\nどのジャンルの店舗情報をお探しですか？",
			"ラーメン(OIC)", "カフェ(OIC)", "デート(OIC)",
		),
	},
	"あいうえお": {
		Action: QuickReply("あいうえおの次の文字を選択してください。"),
	},

	// クーポン情報
	TriggerCouponMenu: {
		Guard: GuardRegistered,
		Action: QuickReply(
			"取得したいクーポンの大学エリアを指定してください",
			"立命館大学OICエリア(クーポン)", "立命館大学BKCエリア(クーポン)",
		),
		RejectText: couponGateText,
	},
	"立命館大学BKCエリア(クーポン)": {
		Action: QuickReply(
			"立命館大学BKCエリアの店舗クーポン情報を取得します。\nどのジャンルのクーポン情報をお探しですか？",
			"ラーメンクーポン(BKC)",
		),
	},
	"立命館大学OICエリア(クーポン)": {
		Action: QuickReply(
			"立命館大学OICエリアの店舗クーポン情報を取得します。\nどのジャンルのクーポン情報をお探しですか？",
			"ラーメンクーポン(OIC)",
		),
	},

	// アンケート回答
	TriggerSurvey: {
		Guard:      GuardRegister,
		Action:     PlainText(surveyConfirmText),
		RejectText: surveyDoneText,
	},
}

// terminalLeaves are option labels that end the menu tree; tapping one
// produces no further reply
var terminalLeaves = map[string]bool{
	"ラーメン(BKC)":     true,
	"ラーメン(OIC)":     true,
	"カフェ(OIC)":      true,
	"デート(OIC)":      true,
	"ラーメンクーポン(BKC)": true,
	"ラーメンクーポン(OIC)": true,
}

// Rules returns the static dispatch table
func Rules() map[string]Rule {
	return rules
}

// IsTerminalLeaf reports whether the label ends the menu tree
func IsTerminalLeaf(label string) bool {
	return terminalLeaves[label]
}
