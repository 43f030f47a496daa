package advisor

import "strings"

// Product describes one loan product in the advisory catalog.
type Product struct {
	ID             string
	Name           string
	Description    string
	Eligibility    string
	InterestRate   string
	ProcessingFee  string
	AmountRange    string
	TenureRange    string
	Documents      []string
	Benefits       []string
	PopularLenders []string
}

// catalogOrder fixes the presentation order of products; map iteration order
// would otherwise leak into replies.
var catalogOrder = []string{
	"home", "personal", "education", "business", "car",
	"gold", "agriculture", "microfinance", "credit_card",
}

var catalog = map[string]Product{
	"home": {
		ID:            "home",
		Name:          "Home Loan",
		Description:   "Loans for purchasing, constructing, or renovating residential property.",
		Eligibility:   "Indian resident, Age 21-65, Minimum income: ₹25,000/month, Good credit score (700+)",
		InterestRate:  "6.5% - 9.5% per annum",
		ProcessingFee: "0.5% - 1% of loan amount",
		AmountRange:   "₹10 lakhs - ₹5 crores",
		TenureRange:   "5 - 30 years",
		Documents: []string{
			"Identity proof (Aadhaar, PAN)",
			"Address proof",
			"Income proof (Salary slips, ITR)",
			"Property documents",
			"Bank statements (6 months)",
		},
		Benefits: []string{
			"Tax benefits under Section 80C and 24(b)",
			"Lower interest rates compared to personal loans",
			"Long repayment tenure",
			"Option for balance transfer",
		},
		PopularLenders: []string{
			"State Bank of India", "HDFC Bank", "ICICI Bank", "Axis Bank", "LIC Housing Finance",
		},
	},
	"personal": {
		ID:            "personal",
		Name:          "Personal Loan",
		Description:   "Unsecured loans for personal expenses like medical emergencies, travel, or debt consolidation.",
		Eligibility:   "Indian resident, Age 21-60, Minimum income: ₹20,000/month, Credit score (650+)",
		InterestRate:  "10.5% - 18% per annum",
		ProcessingFee: "1% - 3% of loan amount",
		AmountRange:   "₹50,000 - ₹40 lakhs",
		TenureRange:   "1 - 5 years",
		Documents: []string{
			"Identity proof (Aadhaar, PAN)",
			"Address proof",
			"Income proof (Salary slips, ITR)",
			"Bank statements (3 months)",
		},
		Benefits: []string{
			"No collateral required",
			"Quick disbursement (24-72 hours)",
			"Flexible usage",
			"Minimal documentation",
		},
		PopularLenders: []string{
			"HDFC Bank", "ICICI Bank", "Bajaj Finserv", "Tata Capital", "State Bank of India",
		},
	},
	"education": {
		ID:            "education",
		Name:          "Education Loan",
		Description:   "Loans for higher education expenses in India or abroad.",
		Eligibility:   "Indian resident, Admission to recognized institution, Co-applicant (parent/guardian)",
		InterestRate:  "7.5% - 14% per annum",
		ProcessingFee: "0% - 1% of loan amount",
		AmountRange:   "Up to ₹75 lakhs for abroad, Up to ₹20 lakhs for India",
		TenureRange:   "5 - 15 years",
		Documents: []string{
			"Identity proof (Aadhaar, PAN)",
			"Address proof",
			"Admission letter",
			"Course fee structure",
			"Academic records",
			"Co-applicant documents",
		},
		Benefits: []string{
			"Tax benefits under Section 80E",
			"Moratorium period during study",
			"Collateral not required for loans up to ₹7.5 lakhs",
			"Covers tuition, accommodation, and other expenses",
		},
		PopularLenders: []string{
			"State Bank of India", "Bank of Baroda", "Canara Bank", "HDFC Credila", "Axis Bank",
		},
	},
	"business": {
		ID:            "business",
		Name:          "Business Loan",
		Description:   "Loans for starting or expanding business operations, working capital, or equipment purchase.",
		Eligibility:   "Business age: 2+ years, Minimum annual turnover: ₹10 lakhs, Good credit score (700+)",
		InterestRate:  "11% - 16% per annum",
		ProcessingFee: "1% - 3% of loan amount",
		AmountRange:   "₹5 lakhs - ₹5 crores",
		TenureRange:   "1 - 7 years",
		Documents: []string{
			"Business registration documents",
			"GST registration",
			"Income Tax Returns (2 years)",
			"Bank statements (6 months)",
			"Business financial statements",
		},
		Benefits: []string{
			"Collateral not required for smaller amounts",
			"Flexible repayment options",
			"Quick disbursement",
			"Tax benefits on interest paid",
		},
		PopularLenders: []string{
			"HDFC Bank", "ICICI Bank", "State Bank of India", "Bajaj Finserv", "Tata Capital",
		},
	},
	"car": {
		ID:            "car",
		Name:          "Car Loan",
		Description:   "Loans for purchasing new or used cars.",
		Eligibility:   "Indian resident, Age 21-65, Minimum income: ₹20,000/month, Good credit score (650+)",
		InterestRate:  "7.25% - 12% per annum",
		ProcessingFee: "0.5% - 1.5% of loan amount",
		AmountRange:   "Up to 90% of car value (new), Up to 80% of car value (used)",
		TenureRange:   "1 - 7 years",
		Documents: []string{
			"Identity proof (Aadhaar, PAN)",
			"Address proof",
			"Income proof (Salary slips, ITR)",
			"Bank statements (3 months)",
			"Car quotation/invoice",
		},
		Benefits: []string{
			"Quick approval and disbursement",
			"Competitive interest rates",
			"Flexible repayment options",
			"Option for balance transfer",
		},
		PopularLenders: []string{
			"HDFC Bank", "ICICI Bank", "State Bank of India", "Axis Bank", "Tata Capital",
		},
	},
	"gold": {
		ID:            "gold",
		Name:          "Gold Loan",
		Description:   "Loans against gold jewelry or ornaments as collateral.",
		Eligibility:   "Indian resident, Age 21+, Ownership of gold jewelry/ornaments",
		InterestRate:  "7% - 15% per annum",
		ProcessingFee: "0% - 1% of loan amount",
		AmountRange:   "Up to 75% of gold value",
		TenureRange:   "3 months - 3 years",
		Documents: []string{
			"Identity proof (Aadhaar, PAN)",
			"Address proof",
			"Gold jewelry/ornaments",
		},
		Benefits: []string{
			"Quick disbursement (within hours)",
			"Minimal documentation",
			"No credit score check",
			"Lower interest rates compared to personal loans",
		},
		PopularLenders: []string{
			"Muthoot Finance", "Manappuram Finance", "State Bank of India", "ICICI Bank", "HDFC Bank",
		},
	},
	"agriculture": {
		ID:            "agriculture",
		Name:          "Agriculture Loan",
		Description:   "Loans for farmers and agricultural activities like crop production, equipment purchase, or land development.",
		Eligibility:   "Farmers, landowners, or agricultural entrepreneurs",
		InterestRate:  "7% - 12% per annum (with subsidies as low as 4%)",
		ProcessingFee: "0% - 0.5% of loan amount",
		AmountRange:   "Varies based on purpose (₹50,000 - ₹50 lakhs)",
		TenureRange:   "1 - 15 years (depending on purpose)",
		Documents: []string{
			"Identity proof (Aadhaar, PAN)",
			"Address proof",
			"Land records",
			"Crop details",
			"Bank statements",
		},
		Benefits: []string{
			"Subsidized interest rates under government schemes",
			"Flexible repayment aligned with harvest cycles",
			"Kisan Credit Card facility",
			"Insurance coverage options",
		},
		PopularLenders: []string{
			"NABARD", "State Bank of India", "Punjab National Bank", "Bank of Baroda", "Regional Rural Banks",
		},
	},
	"microfinance": {
		ID:            "microfinance",
		Name:          "Microfinance Loan",
		Description:   "Small loans for low-income individuals, often for small businesses or income-generating activities.",
		Eligibility:   "Low-income individuals, Often women in rural/semi-urban areas, Group lending model",
		InterestRate:  "18% - 24% per annum",
		ProcessingFee: "1% - 2% of loan amount",
		AmountRange:   "₹10,000 - ₹1 lakh",
		TenureRange:   "6 months - 2 years",
		Documents: []string{
			"Identity proof (Aadhaar)",
			"Address proof",
			"Group formation documents (if applicable)",
		},
		Benefits: []string{
			"No collateral required",
			"Weekly/bi-weekly repayment options",
			"Financial inclusion for underserved populations",
			"Access to subsequent larger loans with good repayment history",
		},
		PopularLenders: []string{
			"Bandhan Bank", "Ujjivan Small Finance Bank", "Satin Creditcare", "Spandana Sphoorty", "Arohan Financial Services",
		},
	},
	"credit_card": {
		ID:            "credit_card",
		Name:          "Credit Card",
		Description:   "Revolving credit facility for purchases and cash advances.",
		Eligibility:   "Indian resident, Age 21-65, Minimum income: ₹15,000/month, Good credit score (650+)",
		InterestRate:  "24% - 42% per annum on outstanding balance",
		ProcessingFee: "₹0 - ₹1,000 (one-time)",
		AmountRange:   "Credit limit: ₹20,000 - ₹10 lakhs (based on profile)",
		TenureRange:   "Revolving credit with minimum monthly payments",
		Documents: []string{
			"Identity proof (Aadhaar, PAN)",
			"Address proof",
			"Income proof (Salary slips, ITR)",
			"Bank statements (3 months)",
		},
		Benefits: []string{
			"Interest-free period (up to 50 days)",
			"Reward points and cashback",
			"EMI conversion facility",
			"Insurance and travel benefits",
			"Discounts and offers",
		},
		PopularLenders: []string{
			"HDFC Bank", "SBI Card", "ICICI Bank", "Axis Bank", "American Express",
		},
	},
}

// relatedTerms routes queries that never name a product to the product they
// most likely mean.
var relatedTerms = map[string][]string{
	"home":         {"house", "flat", "apartment", "property", "real estate", "home"},
	"personal":     {"personal", "emergency", "medical", "wedding", "travel", "vacation"},
	"education":    {"education", "study", "college", "university", "school", "course", "degree"},
	"business":     {"business", "startup", "entrepreneur", "company", "enterprise", "shop"},
	"car":          {"car", "vehicle", "automobile", "four wheeler"},
	"gold":         {"gold", "jewelry", "ornament"},
	"agriculture":  {"farm", "agriculture", "crop", "farming", "tractor"},
	"microfinance": {"micro", "small business", "self help group", "shg", "women entrepreneur"},
	"credit_card":  {"credit card", "card", "credit", "cashback", "reward"},
}

// Products returns the catalog in presentation order.
func Products() []Product {
	out := make([]Product, 0, len(catalogOrder))
	for _, id := range catalogOrder {
		out = append(out, catalog[id])
	}
	return out
}

// Lookup returns the product with the given id.
func Lookup(id string) (Product, bool) {
	p, ok := catalog[id]
	return p, ok
}

// Relevant returns the products a query most plausibly asks about, in
// catalog order. Direct product mentions win; otherwise related terms are
// tried; otherwise the three headline products are returned as a default.
func Relevant(query string) []Product {
	query = strings.ToLower(query)

	var out []Product
	for _, id := range catalogOrder {
		p := catalog[id]
		if strings.Contains(query, id) || strings.Contains(query, strings.ToLower(p.Name)) {
			out = append(out, p)
		}
	}
	if len(out) > 0 {
		return out
	}

	for _, id := range catalogOrder {
		for _, term := range relatedTerms[id] {
			if strings.Contains(query, term) {
				out = append(out, catalog[id])
				break
			}
		}
	}
	if len(out) > 0 {
		return out
	}

	return []Product{catalog["home"], catalog["personal"], catalog["education"]}
}
