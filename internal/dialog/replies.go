package dialog

import "fmt"

// Trigger vocabularies for the rule-based layer.

var greetings = []string{"hi", "hello", "hey", "good morning", "good evening"}

var greetingReplies = []string{
	"Hi! How can I help you today?",
	"Hello! What can I assist you with?",
	"Hey there, I'm here to help.",
}

var refundKeywords = []string{"refund", "money back", "return my order"}

var exchangeKeywords = []string{"exchange", "replace", "replacement", "change product"}

var trackingKeywords = []string{"track", "order status"}

var frustrationWords = []string{"angry", "ridiculous", "worst", "useless", "annoyed"}

var affirmativeTokens = []string{"yes", "yeah", "yep", "sure", "ok", "okay"}

var negativeTokens = []string{"no", "nope", "nah", "thanks", "thank you"}

// Order statuses synthesized for tracking requests, in (status, note)
// pairs.
var orderStatuses = [][2]string{
	{"Order confirmed", "Processing"},
	{"Shipped", "In transit"},
	{"Out for delivery", "Arriving today"},
	{"Delivered", "Completed"},
}

// Fixed reply text.

const (
	replyChatEnded = "This chat has ended.\n" +
		"Please start a new chat if you need further assistance."

	replyHandoffAccepted = "You're now being connected to a customer support agent.\n\n" +
		"Ticket ID: %s\n\n" +
		"An agent will reach out to you shortly. Thank you for your patience.\n\n" +
		"Chat ended. Start a new chat if you need further assistance."

	replyHandoffDeclined = "No problem, I'm here. How else can I help you?"

	replyHandoffReprompt = "Just let me know with 1 or 2."

	replyMoreHelp = "Sure! How else can I assist you today?"

	replyGoodbye = "You're welcome! Thank you for contacting support. Have a great day.\n\n" +
		"Chat ended. Start a new chat if you need further assistance."

	replyYesNoReprompt = "Please reply with Yes or No."

	replyTrackingIntro = "Sure, I can help track your order.\n\n" +
		"Please share your booking or order ID."

	replyInvalidBookingID = "Please share a valid booking or transaction ID."

	replyBookingAccepted = "Thanks for sharing your booking ID (%s)."

	replyOrderStatus = "Order status for %s: %s\n%s\n\n" +
		"Track your order here:\n%s\n\n" +
		"Can I help you with anything else?"

	replyReasonNotNumeric = "Please reply with a number between 1 and %d."

	replyReasonOutOfRange = "Please select a valid option (1-%d)."

	replyRefundInitiated = "Your refund request has been successfully initiated.\n\n" +
		"Ticket ID: %s\n" +
		"Refund reason: %s\n\n" +
		"You will receive updates shortly.\n\n" +
		"Can I help you with anything else?"

	replyExchangeInitiated = "Your exchange request has been successfully initiated.\n\n" +
		"Ticket ID: %s\n" +
		"Exchange reason: %s\n\n" +
		"Our logistics team will contact you for pickup and replacement.\n\n" +
		"Can I help you with anything else?"

	replyWindowMissed = "Your order is beyond the %d-day %s window.\n\n" +
		"Ticket ID: %s\n" +
		"Reason: %s\n\n" +
		"This request requires manual review.\n\n" +
		"Would you like me to connect you to a customer support agent now?\n\n" +
		"1. Yes, connect me\n" +
		"2. No, I'll continue with the bot"

	replyFrustration = "I understand this can be frustrating.\n" +
		"Let me help resolve this for you.\n\n" +
		"Could you please share your booking ID?"

	replyRefundIntro = "Sure, I can help you with your refund.\n\n" +
		"Please share your booking or transaction ID so I can assist you further."

	replyExchangeIntro = "Sure, I can help with an exchange. Please share your booking or order ID."

	replyMenu = "I'm not sure I understood that.\n\n" +
		"I can help you with:\n" +
		"1. Refund\n" +
		"2. Exchange\n" +
		"3. Order status\n" +
		"4. Company policies\n\n" +
		"Please choose an option."

	replyIntegrityReset = "Something went wrong with this request, so I've started over.\n" +
		"Could you tell me again what you'd like to do?"

	headerRefundReasons   = "Please select the reason for your return:"
	headerExchangeReasons = "Please select the reason for exchange:"
)

// trackingURL builds the mock tracking link for a booking ID.
func trackingURL(bookingID string) string {
	return fmt.Sprintf("https://track.frontdesk.example/%s", bookingID)
}
