// Package keyword builds per-language perfect-hash keyword tables and
// translates spellings between languages through their shared token names.
package keyword

// TokenName is a language-neutral symbolic label shared across every
// language configuration, e.g. KeywordFun. Lexers resolve an identifier
// lexeme to a TokenName through a Table; the parser never sees spellings,
// only TokenName values.
type TokenName string

// The minimum required set from the language-configuration contract, plus
// the handful of additional keywords the grammar in spec.md 4.E needs
// (interfaces, extensions, companions, when/match, reactive builders).
const (
	KeywordFun       TokenName = "KeywordFun"
	KeywordVal       TokenName = "KeywordVal"
	KeywordVar       TokenName = "KeywordVar"
	KeywordIf        TokenName = "KeywordIf"
	KeywordElse      TokenName = "KeywordElse"
	KeywordWhile     TokenName = "KeywordWhile"
	KeywordFor       TokenName = "KeywordFor"
	KeywordIn        TokenName = "KeywordIn"
	KeywordReturn    TokenName = "KeywordReturn"
	KeywordStruct    TokenName = "KeywordStruct"
	KeywordEnum      TokenName = "KeywordEnum"
	KeywordTrue      TokenName = "KeywordTrue"
	KeywordFalse     TokenName = "KeywordFalse"
	KeywordMatch     TokenName = "KeywordMatch"
	KeywordWhen      TokenName = "KeywordWhen"
	KeywordAnd       TokenName = "KeywordAnd"
	KeywordOr        TokenName = "KeywordOr"
	KeywordNot       TokenName = "KeywordNot"
	KeywordMove      TokenName = "KeywordMove"
	KeywordBorrow    TokenName = "KeywordBorrow"
	KeywordInout     TokenName = "KeywordInout"
	KeywordIs        TokenName = "KeywordIs"
	KeywordAs        TokenName = "KeywordAs"
	KeywordBy        TokenName = "KeywordBy"
	KeywordSuspend   TokenName = "KeywordSuspend"
	KeywordAwait     TokenName = "KeywordAwait"
	KeywordInterface TokenName = "KeywordInterface"
	KeywordExtension TokenName = "KeywordExtension"
	KeywordClass     TokenName = "KeywordClass"
	KeywordCompanion TokenName = "KeywordCompanion"
	KeywordBreak     TokenName = "KeywordBreak"
	KeywordContinue  TokenName = "KeywordContinue"
	KeywordNull      TokenName = "KeywordNull"
	KeywordFlow      TokenName = "KeywordFlow"
	KeywordReactive  TokenName = "KeywordReactive"
	KeywordType      TokenName = "KeywordType"
)

// RequiredNames is the minimum keyword set every language table must cover,
// per spec.md 6 "Language configuration".
var RequiredNames = []TokenName{
	KeywordFun, KeywordVal, KeywordVar, KeywordIf, KeywordElse, KeywordWhile,
	KeywordFor, KeywordReturn, KeywordStruct, KeywordEnum, KeywordTrue,
	KeywordFalse, KeywordMatch, KeywordAnd, KeywordOr, KeywordNot,
	KeywordMove, KeywordBorrow, KeywordInout, KeywordIs, KeywordAs,
	KeywordBy, KeywordSuspend, KeywordAwait,
}

// English is the canonical English-language keyword table.
var English = []Entry{
	{"fun", KeywordFun},
	{"val", KeywordVal},
	{"var", KeywordVar},
	{"if", KeywordIf},
	{"else", KeywordElse},
	{"while", KeywordWhile},
	{"for", KeywordFor},
	{"in", KeywordIn},
	{"return", KeywordReturn},
	{"struct", KeywordStruct},
	{"enum", KeywordEnum},
	{"true", KeywordTrue},
	{"false", KeywordFalse},
	{"match", KeywordMatch},
	{"when", KeywordWhen},
	{"and", KeywordAnd},
	{"or", KeywordOr},
	{"not", KeywordNot},
	{"move", KeywordMove},
	{"borrow", KeywordBorrow},
	{"inout", KeywordInout},
	{"is", KeywordIs},
	{"as", KeywordAs},
	{"by", KeywordBy},
	{"suspend", KeywordSuspend},
	{"await", KeywordAwait},
	{"interface", KeywordInterface},
	{"extension", KeywordExtension},
	{"class", KeywordClass},
	{"companion", KeywordCompanion},
	{"break", KeywordBreak},
	{"continue", KeywordContinue},
	{"null", KeywordNull},
	{"flow", KeywordFlow},
	{"reactive", KeywordReactive},
	{"type", KeywordType},
}

// Arabic is the canonical Arabic-language keyword table, sharing the same
// token names as English so translation is a two-lookup round trip through
// TokenName rather than a direct spelling map.
var Arabic = []Entry{
	{"دالة", KeywordFun},
	{"ثابت", KeywordVal},
	{"متغير", KeywordVar},
	{"إذا", KeywordIf},
	{"وإلا", KeywordElse},
	{"طالما", KeywordWhile},
	{"لكل", KeywordFor},
	{"في", KeywordIn},
	{"ارجع", KeywordReturn},
	{"بنية", KeywordStruct},
	{"تعداد", KeywordEnum},
	{"صحيح", KeywordTrue},
	{"خطأ", KeywordFalse},
	{"طابق", KeywordMatch},
	{"عندما", KeywordWhen},
	{"و", KeywordAnd},
	{"أو", KeywordOr},
	{"ليس", KeywordNot},
	{"انقل", KeywordMove},
	{"استعر", KeywordBorrow},
	{"داخلي", KeywordInout},
	{"هو", KeywordIs},
	{"ك", KeywordAs},
	{"بواسطة", KeywordBy},
	{"معلق", KeywordSuspend},
	{"انتظر", KeywordAwait},
	{"واجهة", KeywordInterface},
	{"امتداد", KeywordExtension},
	{"صنف", KeywordClass},
	{"مرافق", KeywordCompanion},
	{"اكسر", KeywordBreak},
	{"تابع", KeywordContinue},
	{"فارغ", KeywordNull},
	{"تدفق", KeywordFlow},
	{"تفاعلي", KeywordReactive},
	{"نوع", KeywordType},
}
