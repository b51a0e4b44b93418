package analysis

// Fixed word and symbol tables used by the local analyzers. All of them can
// be overridden at construction; these are the defaults.

var defaultStopWords = []string{
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
	"of", "with", "by", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "do", "does", "did", "will", "would", "could",
	"should", "may", "might", "can", "this", "that", "these", "those",
}

var defaultPositiveWords = []string{
	"good", "great", "excellent", "amazing", "wonderful", "fantastic",
	"awesome", "brilliant", "success", "win", "victory", "achievement",
	"breakthrough", "innovation", "growth", "profit", "increase", "rise",
	"boost", "improve", "better", "best", "positive", "optimistic",
	"strong", "bullish", "surge", "soar", "rally", "gain", "advance",
	"upgrade", "outperform",
}

var defaultNegativeWords = []string{
	"bad", "terrible", "awful", "horrible", "disaster", "crisis",
	"problem", "issue", "fail", "failure", "loss", "decline", "decrease",
	"drop", "fall", "crash", "negative", "pessimistic", "concern",
	"worry", "risk", "danger", "threat", "weak", "bearish", "plunge",
	"tumble", "slide", "slump", "downgrade", "underperform", "volatile",
	"uncertainty",
}

// Keywords whose surrounding sentences get a per-keyword sentiment score.
var defaultContextKeywords = []string{
	"stock", "market", "price", "trading", "investment", "earnings",
	"revenue", "profit",
}

// Keywords that raise the relevance score of a stock mention.
var defaultFinancialKeywords = []string{
	"stock", "price", "trading", "market", "earnings", "revenue",
	"profit", "shares",
}

// TrackedStock maps a ticker symbol to its company name.
type TrackedStock struct {
	Symbol string
	Name   string
}

var defaultTrackedStocks = []TrackedStock{
	{Symbol: "AAPL", Name: "Apple Inc."},
	{Symbol: "GOOGL", Name: "Alphabet Inc."},
	{Symbol: "MSFT", Name: "Microsoft Corporation"},
	{Symbol: "AMZN", Name: "Amazon.com Inc."},
	{Symbol: "TSLA", Name: "Tesla Inc."},
	{Symbol: "META", Name: "Meta Platforms Inc."},
	{Symbol: "NVDA", Name: "NVIDIA Corporation"},
	{Symbol: "NFLX", Name: "Netflix Inc."},
	{Symbol: "AMD", Name: "Advanced Micro Devices"},
	{Symbol: "INTC", Name: "Intel Corporation"},
}
