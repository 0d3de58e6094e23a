package agents

import (
	"fmt"
	"strings"
)

const chatPersona = "You are OLIF, the premium food assistant for OLIF Food. Be elegant, helpful, and concise. " +
	"Help users find restaurants, track orders, or resolve issues. Current cart: "

const extractionInstructions = `You read what a shopper said to a food ordering assistant and return JSON only, with this shape:
{"orders":[{"item":"<dish name>","quantity":<number>}],"isOrder":<bool>,"isCheckoutIntent":<bool>}
Rules:
- Add one entry to "orders" for every dish the shopper wants added to their basket. Use the dish name as they said it.
- "quantity" defaults to 1 when no amount is given.
- "isOrder" is true exactly when "orders" is not empty.
- "isCheckoutIntent" is true when the shopper wants to check out, pay, or place the order.
- Questions, greetings and complaints have no orders and no checkout intent.`

// buildExtractionPrompt frames an utterance for intent extraction. Known
// dish names help the model spell items the way the menus do.
func buildExtractionPrompt(utterance string, menu []string) string {
	var b strings.Builder
	b.WriteString(extractionInstructions)
	if len(menu) > 0 {
		b.WriteString("\nDishes on the menus: ")
		b.WriteString(strings.Join(menu, "; "))
		b.WriteString(".")
	}
	fmt.Fprintf(&b, "\nThe user said: %q", utterance)
	return b.String()
}

func buildRecommendationPrompt(profile string) string {
	return fmt.Sprintf(`Based on this user profile: %q, recommend 3 types of African or International dishes they might like. `+
		`Format as JSON array of objects with 'dish', 'description', and 'reason'.`, profile)
}
