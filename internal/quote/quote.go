// Package quote decodes the structured quote the model embeds in its
// generation output. The format is external and unstable: prose, a literal
// delimiter, then a JSON document that may be fenced, truncated, or missing
// entirely. Every failure mode degrades to "no quote", never to an error
// that kills the request.
package quote

import (
	"github.com/shopspring/decimal"
)

// Delimiter separates the reply text from the quote JSON in the model
// output. It is part of the prompt contract; changing it breaks parsing of
// in-flight responses.
const Delimiter = "---SEPARATION---"

// TVA rate applied by the prompt contract (20%).
var tvaRate = decimal.NewFromFloat(0.2)

type Item struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
}

type Quote struct {
	DevisNumber   string  `json:"devisNumber"`
	Date          string  `json:"date"`
	ClientName    string  `json:"clientName"`
	ClientAddress string  `json:"clientAddress"`
	Items         []Item  `json:"items"`
	Subtotal      float64 `json:"subtotal"`
	TVA           float64 `json:"tva"`
	Total         float64 `json:"total"`
	ValidityDays  int     `json:"validityDays"`
	DeliveryTime  string  `json:"deliveryTime"`
	PaymentTerms  string  `json:"paymentTerms"`
}

// ChecksOut verifies the arithmetic contract the prompt imposes:
// subtotal = Σ item.total, tva = round(subtotal * 0.2), total = subtotal + tva.
// Comparisons run on decimals rounded to cents so float-encoded JSON numbers
// do not produce spurious mismatches.
func (q *Quote) ChecksOut() bool {
	sum := decimal.Zero
	for _, it := range q.Items {
		sum = sum.Add(decimal.NewFromFloat(it.Total))
	}
	sum = sum.Round(2)

	subtotal := decimal.NewFromFloat(q.Subtotal).Round(2)
	tva := decimal.NewFromFloat(q.TVA).Round(2)
	total := decimal.NewFromFloat(q.Total).Round(2)

	if !subtotal.Equal(sum) {
		return false
	}
	if !tva.Equal(subtotal.Mul(tvaRate).Round(2)) {
		return false
	}
	return total.Equal(subtotal.Add(tva))
}
