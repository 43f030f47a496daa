package advisor

import (
	"fmt"
	"strconv"
	"strings"
)

// Profile holds what is known about the user across a conversation. Zero
// values mean unknown.
type Profile struct {
	Age         int    `json:"age,omitempty"`
	Income      int    `json:"income,omitempty"`
	CreditScore int    `json:"credit_score,omitempty"`
	Employment  string `json:"employment_type,omitempty"`
}

// Empty reports whether nothing is known about the user yet.
func (p Profile) Empty() bool {
	return p == Profile{}
}

// Merge overlays the known fields of other onto p and returns the result.
// Newer information wins.
func (p Profile) Merge(other Profile) Profile {
	if other.Age != 0 {
		p.Age = other.Age
	}
	if other.Income != 0 {
		p.Income = other.Income
	}
	if other.CreditScore != 0 {
		p.CreditScore = other.CreditScore
	}
	if other.Employment != "" {
		p.Employment = other.Employment
	}
	return p
}

// Eligibility is the outcome of checking a profile against one product's
// criteria.
type Eligibility struct {
	Eligible bool
	LoanType string
	Factors  []string
	Tips     []string
}

// CheckEligibility evaluates the profile against the rules for the given
// product. Unknown profile fields are not held against the user; only known
// values can disqualify.
func CheckEligibility(loanID string, p Profile) (Eligibility, error) {
	product, ok := Lookup(loanID)
	if !ok {
		return Eligibility{}, fmt.Errorf("unknown loan type %q", loanID)
	}

	res := Eligibility{Eligible: true, LoanType: product.Name}

	if p.Age != 0 {
		switch {
		case loanID == "home" && (p.Age < 21 || p.Age > 65):
			res.Eligible = false
			res.Factors = append(res.Factors, fmt.Sprintf("Age: %d (Required: 21-65)", p.Age))
			res.Tips = append(res.Tips, "You must be between 21-65 years to apply for a home loan.")
		case loanID == "personal" && (p.Age < 21 || p.Age > 60):
			res.Eligible = false
			res.Factors = append(res.Factors, fmt.Sprintf("Age: %d (Required: 21-60)", p.Age))
			res.Tips = append(res.Tips, "You must be between 21-60 years to apply for a personal loan.")
		}
	}

	if p.Income != 0 {
		switch {
		case loanID == "home" && p.Income < 25000:
			res.Eligible = false
			res.Factors = append(res.Factors, fmt.Sprintf("Monthly Income: ₹%d (Required: ₹25,000+)", p.Income))
			res.Tips = append(res.Tips, "Consider adding a co-applicant to increase the household income.")
		case loanID == "personal" && p.Income < 20000:
			res.Eligible = false
			res.Factors = append(res.Factors, fmt.Sprintf("Monthly Income: ₹%d (Required: ₹20,000+)", p.Income))
			res.Tips = append(res.Tips, "Look for specialized personal loans with lower income requirements.")
		}
	}

	if p.CreditScore != 0 {
		switch {
		case loanID == "home" && p.CreditScore < 700:
			res.Eligible = false
			res.Factors = append(res.Factors, fmt.Sprintf("Credit Score: %d (Required: 700+)", p.CreditScore))
			res.Tips = append(res.Tips, "Work on improving your credit score by paying bills on time and reducing existing debt.")
		case loanID == "personal" && p.CreditScore < 650:
			res.Eligible = false
			res.Factors = append(res.Factors, fmt.Sprintf("Credit Score: %d (Required: 650+)", p.CreditScore))
			res.Tips = append(res.Tips, "Consider a secured loan option or improve your credit score.")
		}
	}

	// Business loans suit the self-employed; a mismatch is advisory, not
	// disqualifying.
	if p.Employment != "" && loanID == "business" && p.Employment != "self_employed" {
		res.Factors = append(res.Factors, fmt.Sprintf("Employment Type: %s (Business loans are ideal for self-employed)", p.Employment))
		res.Tips = append(res.Tips, "Business loans are primarily for business owners. Consider a personal loan instead.")
	}

	return res, nil
}

// ExtractProfile pulls age, income, credit score, and employment type out of
// free text. It is a keyword heuristic: numbers only count when a related
// term appears nearby.
func ExtractProfile(text string) Profile {
	var p Profile
	text = strings.ToLower(text)
	words := strings.Fields(text)

	if idx := strings.Index(text, "age"); idx >= 0 {
		for _, w := range words {
			n, err := strconv.Atoi(w)
			if err != nil || n < 18 || n > 100 {
				continue
			}
			if wordIdx := strings.Index(text, w); abs(idx-wordIdx) < 20 {
				p.Age = n
			}
		}
	}

	if containsAny(text, "income", "salary", "earn") {
		for i, w := range words {
			n, err := strconv.Atoi(w)
			if err != nil {
				continue
			}
			next := ""
			if i < len(words)-1 {
				next = words[i+1]
			}
			switch {
			case strings.Contains(next, "lakh"):
				p.Income = n * 100000
			case strings.Contains(next, "thousand"), strings.Contains(next, "k"):
				p.Income = n * 1000
			case n >= 10000 && n <= 1000000:
				p.Income = n
			}
		}
	}

	if containsAny(text, "credit", "score", "cibil") {
		for _, w := range words {
			if n, err := strconv.Atoi(w); err == nil && n >= 300 && n <= 900 {
				p.CreditScore = n
			}
		}
	}

	if containsAny(text, "job", "work", "employment", "profession") {
		switch {
		case containsAny(text, "business", "self", "entrepreneur"):
			p.Employment = "self_employed"
		case containsAny(text, "salaried", "employee"):
			p.Employment = "salaried"
		}
	}

	return p
}

func containsAny(text string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
