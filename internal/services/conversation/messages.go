package conversation

import (
	"fmt"
	"strings"

	"forbill/internal/models"
	"forbill/internal/services/vtu"
)

func welcomeMessage(user *models.User) string {
	return fmt.Sprintf("🎉 *Welcome to ForBill!*\n\n"+
		"Your one-stop platform for:\n"+
		"📱 Airtime Top-up\n"+
		"📊 Data Bundles\n"+
		"⚡ Electricity Bills\n"+
		"📺 TV Subscriptions\n\n"+
		"💰 Wallet Balance: ₦%.2f\n\n"+
		"Type *help* to see available commands.", user.WalletBalance)
}

func helpMessage() string {
	return "📋 *ForBill Commands*\n\n" +
		"💰 *balance* - Check wallet balance\n" +
		"📱 *airtime* - Buy airtime\n" +
		"📊 *data* - Buy data bundles\n" +
		"📋 *status* - Check transaction status\n" +
		"❓ *help* - Show this menu\n\n" +
		"_More services coming soon!_"
}

func balanceMessage(balance float64) string {
	return fmt.Sprintf("💰 *Your Wallet Balance*\n\n₦%.2f\n\n"+
		"_Contact support to fund your wallet._", balance)
}

func airtimeInstructions() string {
	return "📱 *Buy Airtime*\n\n" +
		"To purchase airtime, send a message like:\n" +
		"_\"Buy ₦500 MTN airtime for 08012345678\"_\n\n" +
		"💡 *Supported Networks:*\n" +
		"• MTN\n• Airtel\n• GLO\n• 9Mobile\n\n" +
		"_Amount range: ₦50 - ₦50,000_"
}

func dataInstructions(networkCode string) string {
	var b strings.Builder
	b.WriteString("📊 *Buy Data Bundles*\n\n")
	b.WriteString("To purchase data, send a message like:\n")
	b.WriteString("_\"Buy 1GB MTN data for 08012345678\"_\n\n")
	b.WriteString("💡 *Available Plans:*\n")
	code := networkCode
	if code == "" {
		code = "mtn"
	}
	for _, plan := range vtu.GetDataPlans(code) {
		fmt.Fprintf(&b, "• %s - ₦%.0f\n", plan.Name, plan.Amount)
	}
	b.WriteString("\n_Plans available on all networks_")
	return b.String()
}

func statusInstructions() string {
	return "📋 *Check Transaction Status*\n\n" +
		"To check your transaction status:\n" +
		"_\"Status TXN_ABC123456789\"_\n\n" +
		"Or check your recent transactions:\n" +
		"_\"My transactions\"_"
}

func defaultResponse() string {
	return "🤖 I didn't understand that command.\n\n" +
		"Type *help* to see available options or try:\n" +
		"• _\"Buy ₦500 MTN airtime for 08012345678\"_\n" +
		"• _\"Buy 1GB Airtel data for 08012345678\"_\n" +
		"• _\"Balance\"_\n" +
		"• _\"Help\"_"
}

func cancelledMessage() string {
	return "❌ Purchase cancelled. Type *help* to see what else I can do."
}

func serviceSelectionPrompt() string {
	return "📱 What would you like to buy?\n\n" +
		"Reply with the network and service, for example:\n" +
		"_\"MTN airtime\"_ or _\"Glo data\"_\n\n" +
		"Type *cancel* to stop."
}

func amountPrompt(networkCode, serviceType string) string {
	if serviceType == models.ServiceData {
		var b strings.Builder
		fmt.Fprintf(&b, "📊 *%s Data Plans*\n\n", vtu.NetworkName(networkCode))
		for _, plan := range vtu.GetDataPlans(networkCode) {
			fmt.Fprintf(&b, "• %s - ₦%.0f\n", plan.Name, plan.Amount)
		}
		b.WriteString("\nReply with the bundle you want, e.g. _\"1GB\"_.\nType *cancel* to stop.")
		return b.String()
	}
	return fmt.Sprintf("💵 How much %s airtime? (₦50 - ₦50,000)\n\nType *cancel* to stop.",
		vtu.NetworkName(networkCode))
}

func phonePrompt() string {
	return "📞 Which number should receive it?\n\n" +
		"Reply with the recipient's phone number, e.g. _08012345678_.\nType *cancel* to stop."
}

func invalidAmountMessage() string {
	return "⚠️ I couldn't read that amount. Reply with a number like _500_, or type *cancel* to stop."
}

func invalidPlanMessage(networkCode string) string {
	return fmt.Sprintf("⚠️ That's not a bundle I recognize on %s. Reply with one of the listed plans, e.g. _\"1GB\"_, or type *cancel* to stop.",
		vtu.NetworkName(networkCode))
}

func invalidPhoneMessage() string {
	return "⚠️ That doesn't look like a valid Nigerian phone number. Try _08012345678_, or type *cancel* to stop."
}

func invalidSelectionMessage() string {
	return "⚠️ I need both the network and the service, e.g. _\"MTN airtime\"_ or _\"Airtel data\"_. Type *cancel* to stop."
}

func confirmationSummary(serviceType, networkCode, planName, phone string, amount float64) string {
	var b strings.Builder
	b.WriteString("🧾 *Confirm your purchase*\n\n")
	if serviceType == models.ServiceData {
		fmt.Fprintf(&b, "📊 %s data: %s\n", vtu.NetworkName(networkCode), planName)
	} else {
		fmt.Fprintf(&b, "📱 %s airtime\n", vtu.NetworkName(networkCode))
	}
	fmt.Fprintf(&b, "📞 Recipient: %s\n", phone)
	fmt.Fprintf(&b, "💵 Total: ₦%.2f (fees included)\n\n", amount)
	b.WriteString("Reply *yes* to pay from your wallet, or *no* to cancel.")
	return b.String()
}

func processingMessage() string {
	return "⏳ Processing your purchase. You will get a confirmation shortly."
}

func lowBalanceMessage(balance, amount float64) string {
	return fmt.Sprintf("⚠️ Your wallet balance (₦%.2f) can't cover ₦%.2f.\n\n"+
		"_Contact support to fund your wallet._", balance, amount)
}

func transactionListHeader() string {
	return "📋 *Your Recent Transactions*\n"
}

func statusNotFoundMessage(reference string) string {
	return fmt.Sprintf("🔍 I couldn't find a transaction %s on your account.", reference)
}

func noTransactionsMessage() string {
	return "🔍 You have no transactions yet. Type *help* to get started."
}
