// Package advisor generates English-language replies for a loan advisory
// conversation: intent classification over the user's query, a product
// catalog, rule-based eligibility checks, and financial literacy tips.
//
// Replies are always produced in English; translation into the user's
// language happens downstream.
package advisor

import (
	"errors"
	"fmt"
	"strings"
)

// ErrReplyGeneration indicates the advisor could not produce a reply for the
// query. Unlike translation or synthesis problems this is not recoverable by
// degrading.
var ErrReplyGeneration = errors.New("reply generation failed")

// Intent categories.
const (
	IntentEligibility = "eligibility_check"
	IntentApplication = "application_guidance"
	IntentLiteracy    = "financial_literacy"
	IntentGeneral     = "general_inquiry"
)

// Intent is the classified meaning of one user query.
type Intent struct {
	Category string
	LoanType string
	Profile  Profile
}

var (
	eligibilityKeywords = []string{"eligible", "eligibility", "qualify", "qualification", "can i get", "am i eligible"}
	applicationKeywords = []string{"apply", "application", "process", "procedure", "how to get", "documents", "document"}
	literacyKeywords    = []string{"advice", "tip", "suggestion", "recommend", "improve", "credit score", "saving", "budget"}

	intentLoanTypes = []string{"home", "personal", "business", "education", "car", "gold", "agriculture", "microfinance"}
)

// Classify determines the intent of an English query by keyword matching.
func Classify(query string) Intent {
	q := strings.ToLower(query)
	intent := Intent{Category: IntentGeneral}

	switch {
	case containsAny(q, eligibilityKeywords...):
		intent.Category = IntentEligibility
		intent.LoanType = findLoanType(q)
		intent.Profile = ExtractProfile(q)
	case containsAny(q, applicationKeywords...):
		intent.Category = IntentApplication
		intent.LoanType = findLoanType(q)
	case containsAny(q, literacyKeywords...):
		intent.Category = IntentLiteracy
	}

	return intent
}

func findLoanType(q string) string {
	for _, lt := range intentLoanTypes {
		if strings.Contains(q, lt) {
			return lt
		}
	}
	return ""
}

// Reply produces an English advisory reply to the query. The profile carries
// facts learned in earlier turns and is merged with anything extracted from
// this query. Returns [ErrReplyGeneration] when the query is empty.
func Reply(query string, profile Profile) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: empty query", ErrReplyGeneration)
	}

	intent := Classify(query)

	switch intent.Category {
	case IntentEligibility:
		return eligibilityReply(intent, query, profile.Merge(intent.Profile)), nil
	case IntentApplication:
		return applicationReply(intent, query), nil
	case IntentLiteracy:
		return literacyReply(query), nil
	default:
		return generalReply(query), nil
	}
}

func eligibilityReply(intent Intent, query string, profile Profile) string {
	loanID := intent.LoanType
	if loanID == "" {
		if rel := Relevant(query); len(rel) > 0 {
			loanID = rel[0].ID
		}
	}

	product, ok := Lookup(loanID)
	if !ok {
		return productPrompt("I can help check your eligibility for various loan types.",
			"Once you let me know which loan you're interested in, I can check your eligibility and provide more details.")
	}

	if profile.Empty() {
		ageRange := "21-60"
		if loanID == "home" {
			ageRange = "21-65"
		}
		var b strings.Builder
		fmt.Fprintf(&b, "To check your eligibility for a %s, I need some information from you:\n\n", product.Name)
		fmt.Fprintf(&b, "- Your age (should be between %s years)\n", ageRange)
		b.WriteString("- Your monthly income (minimum requirement varies by loan type)\n")
		b.WriteString("- Your credit score (ideally 650+ for most loans)\n")
		b.WriteString("- Employment status and type\n\n")
		fmt.Fprintf(&b, "The basic eligibility criteria for a %s are:\n%s\n\n", product.Name, product.Eligibility)
		b.WriteString("Could you please provide this information so I can check your eligibility?")
		return b.String()
	}

	elig, err := CheckEligibility(loanID, profile)
	if err != nil {
		return "I couldn't find information about that specific loan type. Please specify which type of loan you're interested in (e.g., home loan, personal loan, etc.)."
	}

	var b strings.Builder
	if elig.Eligible {
		fmt.Fprintf(&b, "Based on the information provided, you appear to be eligible for a %s! Here's what you need to know:\n\n", product.Name)
		fmt.Fprintf(&b, "- Interest Rate: %s\n", product.InterestRate)
		fmt.Fprintf(&b, "- Loan Amount Range: %s\n", product.AmountRange)
		fmt.Fprintf(&b, "- Tenure: %s\n\n", product.TenureRange)
		b.WriteString("Required Documents:\n")
		for _, doc := range firstN(product.Documents, 3) {
			fmt.Fprintf(&b, "- %s\n", doc)
		}
		if len(product.Documents) > 3 {
			b.WriteString("- And more documents based on the lender's requirements\n")
		}
		b.WriteString("\nWould you like me to guide you through the application process?")
	} else {
		fmt.Fprintf(&b, "Based on the information provided, you may not be eligible for a %s at this time. ", product.Name)
		b.WriteString("Here are the factors affecting your eligibility:\n\n")
		for _, f := range elig.Factors {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		b.WriteString("\nHere are some tips to improve your eligibility:\n")
		for _, tip := range elig.Tips {
			fmt.Fprintf(&b, "- %s\n", tip)
		}
	}
	return b.String()
}

func applicationReply(intent Intent, query string) string {
	loanID := intent.LoanType
	if loanID == "" {
		if rel := Relevant(query); len(rel) > 0 {
			loanID = rel[0].ID
		}
	}

	product, ok := Lookup(loanID)
	if !ok {
		return productPrompt("I can guide you through the application process for various loans.",
			"Once you let me know which loan you're interested in, I can provide detailed application guidance.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here's a step-by-step guide to apply for a %s:\n\n", product.Name)
	b.WriteString("1. Check Your Eligibility: Make sure you meet the basic criteria:\n")
	fmt.Fprintf(&b, "   %s\n\n", product.Eligibility)

	b.WriteString("2. Prepare Documents: You'll need the following documents:\n")
	for _, doc := range product.Documents {
		fmt.Fprintf(&b, "   - %s\n", doc)
	}

	b.WriteString("\n3. Compare Lenders: Consider these popular lenders:\n")
	for _, lender := range firstN(product.PopularLenders, 3) {
		fmt.Fprintf(&b, "   - %s\n", lender)
	}

	b.WriteString("\n4. Application Process:\n")
	b.WriteString("   - Complete the application form (online or at branch)\n")
	b.WriteString("   - Submit all required documents\n")
	b.WriteString("   - Pay the processing fee\n")
	b.WriteString("   - Undergo credit assessment\n")

	b.WriteString("\n5. Verification:\n")
	b.WriteString("   - The lender will verify your documents\n")
	b.WriteString("   - For secured loans, property/asset valuation will be done\n")

	b.WriteString("\n6. Approval & Disbursement:\n")
	b.WriteString("   - After approval, review the loan agreement carefully\n")
	b.WriteString("   - Sign the loan agreement\n")
	b.WriteString("   - The amount will be disbursed to your account\n\n")

	b.WriteString("Financial Tips for Loan Application:\n")
	for _, tip := range firstN(TipsFor("application"), 3) {
		fmt.Fprintf(&b, "- %s\n", tip)
	}

	b.WriteString("\nDo you need more specific information about any of these steps?")
	return b.String()
}

func literacyReply(query string) string {
	q := strings.ToLower(query)
	tips := TipsFor(q)

	var heading, closing string
	switch {
	case strings.Contains(q, "credit"):
		heading = "Tips to Improve Your Credit Score:"
		closing = "A good credit score (700+) can help you qualify for better loan terms and lower interest rates. Do you have any specific questions about improving your credit score?"
	case strings.Contains(q, "save"), strings.Contains(q, "saving"):
		heading = "Effective Saving Strategies:"
		closing = "Consistent saving is key to financial stability and achieving your goals. Would you like personalized saving advice based on your financial situation?"
	case strings.Contains(q, "invest"):
		heading = "Investment Tips for Beginners:"
		closing = "Investing is essential for long-term wealth building. Remember that all investments carry some risk, so do thorough research before investing."
	default:
		heading = "General Financial Literacy Tips:"
		closing = "Good financial habits can help you achieve your financial goals and prepare for unexpected expenses. Would you like more specific financial advice on a particular topic?"
	}

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n\n")
	for _, tip := range tips {
		fmt.Fprintf(&b, "- %s\n", tip)
	}
	b.WriteString("\n")
	b.WriteString(closing)
	return b.String()
}

func generalReply(query string) string {
	q := strings.ToLower(query)

	// Only present a specific product when the query actually pointed at
	// one; the catch-all default goes to the capability overview instead.
	named := false
	for _, id := range catalogOrder {
		p := catalog[id]
		if strings.Contains(q, id) || strings.Contains(q, strings.ToLower(p.Name)) {
			named = true
			break
		}
	}
	if !named {
		for _, terms := range relatedTerms {
			for _, term := range terms {
				if strings.Contains(q, term) {
					named = true
					break
				}
			}
		}
	}

	if named {
		product := Relevant(query)[0]
		var b strings.Builder
		fmt.Fprintf(&b, "%s\n\n%s\n\n", product.Name, product.Description)
		b.WriteString("Key Features:\n")
		fmt.Fprintf(&b, "- Interest Rate: %s\n", product.InterestRate)
		fmt.Fprintf(&b, "- Loan Amount: %s\n", product.AmountRange)
		fmt.Fprintf(&b, "- Tenure: %s\n", product.TenureRange)
		fmt.Fprintf(&b, "- Processing Fee: %s\n\n", product.ProcessingFee)
		fmt.Fprintf(&b, "Eligibility:\n%s\n\n", product.Eligibility)
		b.WriteString("Would you like to:\n")
		b.WriteString("1. Check your eligibility for this loan\n")
		b.WriteString("2. Get guidance on the application process\n")
		b.WriteString("3. Learn about financial tips related to this loan\n")
		return b.String()
	}

	var b strings.Builder
	b.WriteString("I'm your multilingual loan advisor assistant. I can help you with:\n\n")
	b.WriteString("1. Loan Eligibility: Check if you qualify for different types of loans\n")
	b.WriteString("2. Application Guidance: Get step-by-step guidance for loan applications\n")
	b.WriteString("3. Financial Tips: Learn helpful financial literacy tips\n\n")
	b.WriteString("We offer information on various loan types including:\n")
	for _, p := range firstN(Products(), 5) {
		fmt.Fprintf(&b, "- %s\n", p.Name)
	}
	b.WriteString("\nHow can I assist you today? Feel free to ask in your preferred language!")
	return b.String()
}

// productPrompt lists the headline products and asks the user to pick one.
func productPrompt(intro, outro string) string {
	var b strings.Builder
	b.WriteString(intro)
	b.WriteString(" Please specify which type of loan you're interested in:\n\n")
	for _, p := range firstN(Products(), 5) {
		fmt.Fprintf(&b, "- %s: %s\n", p.Name, p.Description)
	}
	b.WriteString("\n")
	b.WriteString(outro)
	return b.String()
}

func firstN[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
