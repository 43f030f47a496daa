package advisor

import "strings"

var generalTips = []string{
	"Maintain an emergency fund with 3-6 months of expenses.",
	"Invest early for retirement, even small amounts can grow significantly over time.",
	"Pay off high-interest debt before investing in low-return instruments.",
	"Review your credit report regularly and dispute any errors.",
	"Automate your savings to ensure consistency.",
	"Follow the 50/30/20 rule: 50% needs, 30% wants, 20% savings/debt repayment.",
	"Consider term insurance for financial protection.",
	"Diversify your investments across different asset classes.",
	"Compare multiple loan options before finalizing one.",
	"Read and understand all terms before signing loan documents.",
}

var creditScoreTips = []string{
	"Pay your bills on time to build a good credit history.",
	"Keep your credit card utilization below 30% of your limit.",
	"Don't close old credit accounts, even if unused.",
	"Limit the number of new credit applications.",
	"Check your credit report regularly for errors or fraud.",
}

var loanApplicationTips = []string{
	"Gather all required documents before applying to speed up the process.",
	"Don't apply for multiple loans simultaneously as it can hurt your credit score.",
	"Be honest about your financial situation in your application.",
	"Consider a joint loan application to improve eligibility.",
	"Calculate your EMI beforehand to ensure it's within your budget.",
}

var savingTips = []string{
	"Set specific financial goals with timelines.",
	"Use automatic transfers to your savings account on payday.",
	"Track your expenses to identify areas where you can cut back.",
	"Consider tax-saving investment options like PPF or ELSS.",
	"Look for high-interest savings accounts or fixed deposits for short-term goals.",
}

// TipsFor returns the financial literacy tips matching the context, falling
// back to the general list.
func TipsFor(context string) []string {
	context = strings.ToLower(context)
	switch {
	case containsAny(context, "credit", "score", "cibil"):
		return creditScoreTips
	case containsAny(context, "apply", "application", "document", "loan"):
		return loanApplicationTips
	case containsAny(context, "save", "saving", "budget", "money"):
		return savingTips
	}
	return generalTips
}
