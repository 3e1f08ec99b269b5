package networth

import (
	"math"
	"slices"
	"strings"

	"github.com/jbrukh/bayesian"
)

// minConfidence is the log-score margin the best class needs over the
// runner-up before a prediction is trusted.
const minConfidence = 10

// PayeeClassifier predicts counter-accounts with a naive Bayes classifier
// trained on the payees of existing transactions.
type PayeeClassifier struct {
	classifier *bayesian.Classifier
}

// TrainClassifier learns, from every transaction that posts to account, the
// payee words of each of its other accounts. It returns nil when there is
// nothing to learn from.
func TrainClassifier(transactions []*Transaction, account string) *PayeeClassifier {
	uniqueAccounts := make(map[string]bool)
	for _, t := range transactions {
		if !postsTo(t, account) {
			continue
		}
		for _, p := range t.Postings {
			if p.Account != account {
				uniqueAccounts[p.Account] = true
			}
		}
	}
	// the classifier needs at least two classes
	if len(uniqueAccounts) < 2 {
		return nil
	}

	names := make([]string, 0, len(uniqueAccounts))
	for name := range uniqueAccounts {
		names = append(names, name)
	}
	slices.Sort(names)
	classes := make([]bayesian.Class, len(names))
	for i, name := range names {
		classes[i] = bayesian.Class(name)
	}

	classifier := bayesian.NewClassifier(classes...)
	for _, t := range transactions {
		if !postsTo(t, account) {
			continue
		}
		payeeWords := strings.Fields(t.Payee)
		for _, p := range t.Postings {
			if p.Account != account {
				classifier.Learn(payeeWords, bayesian.Class(p.Account))
			}
		}
	}
	return &PayeeClassifier{classifier: classifier}
}

func postsTo(t *Transaction, account string) bool {
	return slices.ContainsFunc(t.Postings, func(p Posting) bool { return p.Account == account })
}

// Classify returns the best matching account, or UnknownAccount when no
// class stands out clearly.
func (c *PayeeClassifier) Classify(words []string) string {
	if c == nil || len(words) == 0 {
		return UnknownAccount
	}

	// Find the highest and second highest scores
	highScore1 := math.Inf(-1)
	highScore2 := math.Inf(-1)
	matchIdx := 0
	scores, _, _ := c.classifier.LogScores(words)
	for j, score := range scores {
		if score > highScore1 {
			highScore2 = highScore1
			highScore1 = score
			matchIdx = j
		} else if score > highScore2 {
			highScore2 = score
		}
	}
	if highScore1-highScore2 > minConfidence {
		return string(c.classifier.Classes[matchIdx])
	}
	return UnknownAccount
}
